package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbscraper/pkg/models"
)

func sampleRecord(id, text string) *models.PostRecord {
	return &models.PostRecord{
		UserID:   "7",
		UserName: "作者",
		ID:       json.Number(id),
		Text:     text,
		Images:   []string{},
		Created:  models.Timestamp{Time: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		Topics:   []string{},
		AtUsers:  []string{},
	}
}

func TestWriterEmitsOneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Write(sampleRecord("1", "第一条")))
	require.NoError(t, w.Write(sampleRecord("2", "第二条")))
	assert.Equal(t, 2, w.Count())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var rec models.PostRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "第一条", rec.Text)
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "第二条", rec.Text)
}

func TestWriterEmitsNonASCIILiterally(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Write(sampleRecord("1", "微博正文 <&>")))

	out := buf.String()
	assert.Contains(t, out, "微博正文", "non-ASCII must not be escaped")
	assert.Contains(t, out, "<&>", "HTML escaping is disabled")
	assert.NotContains(t, out, `\u`)
}

func TestWriterDateForm(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Write(sampleRecord("1", "x")))
	assert.Contains(t, buf.String(), `"created":"2024-03-15T10:00:00"`)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.jsonl")

	w, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord("1", "落盘")))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
	assert.Contains(t, string(data), "落盘")
}

func TestOpenFileBadPath(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing", "posts.jsonl"))
	assert.Error(t, err)
}
