// Package storage writes the collected record stream as JSONL: one
// JSON object per line, field order fixed by the record type, non-ASCII
// text emitted literally.
package storage
