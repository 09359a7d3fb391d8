package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"wbscraper/pkg/models"
)

// Writer appends records to an output stream as newline-delimited JSON,
// one object per line. Non-ASCII text is emitted literally and field
// order follows the record definition. Writes are serialized, so the
// writer can be shared as the single cross-feed sink.
type Writer struct {
	mu     sync.Mutex
	enc    *json.Encoder
	count  int
	closer io.Closer
}

// NewWriter wraps an open, caller-owned stream.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// OpenFile creates (or truncates) a JSONL file at path and returns a
// writer that owns it.
func OpenFile(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Write emits one record as a single JSON line.
func (w *Writer) Write(rec *models.PostRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close releases the underlying file when the writer owns one.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
