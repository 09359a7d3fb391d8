package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCollectUserIDsMergesSourcesInOrder(t *testing.T) {
	csvPath := writeTempFile(t, "users.csv", "name,id\nalice,200\nbob,300\n")
	txtPath := writeTempFile(t, "users.txt", "# watchlist\n400\n\n200\n")

	ids, err := collectUserIDs([]string{"100", "200"}, csvPath, txtPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200", "300", "400"}, ids)
}

func TestCollectUserIDsRejectsNonNumeric(t *testing.T) {
	_, err := collectUserIDs([]string{"abc"}, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc")
}

func TestReadCSVIDsWithoutHeader(t *testing.T) {
	csvPath := writeTempFile(t, "plain.csv", "100\n200\n")

	ids, err := readCSVIDs(csvPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, ids)
}

func TestReadCSVIDsMissingFile(t *testing.T) {
	_, err := readCSVIDs(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
