package weibo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/buger/jsonparser"

	"wbscraper/pkg/errors"
	"wbscraper/pkg/models"
)

// The detail page is an HTML document with the full post object inlined
// in a script block. There is no structured way to address it; the
// extraction delimits it textually between two known field markers.
const (
	statusMarker    = `"status":`
	hotSchemeMarker = `"hotScheme"`
)

// ExtractEmbeddedStatus carves the embedded post object out of a detail
// page document: everything from the status marker up to the last comma
// before the hotScheme marker, wrapped in braces to form a valid JSON
// object. A missing marker or an unparsable slice is an
// extraction-format error, which flags the heuristic itself as broken
// rather than the network.
func ExtractEmbeddedStatus(html []byte) ([]byte, error) {
	start := bytes.Index(html, []byte(statusMarker))
	if start < 0 {
		return nil, extractionError("status marker not found in detail page", html)
	}
	chunk := html[start:]

	end := bytes.LastIndex(chunk, []byte(hotSchemeMarker))
	if end < 0 {
		return nil, extractionError("hotScheme marker not found in detail page", html)
	}
	chunk = chunk[:end]

	if comma := bytes.LastIndexByte(chunk, ','); comma >= 0 {
		chunk = chunk[:comma]
	}

	wrapped := make([]byte, 0, len(chunk)+2)
	wrapped = append(wrapped, '{')
	wrapped = append(wrapped, chunk...)
	wrapped = append(wrapped, '}')

	status, dataType, _, err := jsonparser.Get(wrapped, "status")
	if err != nil || dataType != jsonparser.Object {
		return nil, extractionError("embedded status object does not parse", wrapped)
	}
	return status, nil
}

// FetchLong fetches the detail page for a truncated post and runs the
// reconstructed post through the same parse path as a page card.
func (c *Client) FetchLong(postID string, now time.Time) (*models.PostRecord, error) {
	html, err := c.FetchDetailHTML(postID)
	if err != nil {
		return nil, err
	}

	raw, err := ExtractEmbeddedStatus(html)
	if err != nil {
		return nil, err
	}

	var mb Mblog
	if err := json.Unmarshal(sanitizeControl(raw), &mb); err != nil {
		return nil, extractionError(fmt.Sprintf("embedded status does not decode: %v", err), raw)
	}
	return ParseMblog(&mb, now)
}

func extractionError(msg string, context []byte) *errors.Error {
	excerpt := string(context)
	if len(excerpt) > 200 {
		excerpt = excerpt[:200] + "..."
	}
	return &errors.Error{
		Type:    errors.ErrorTypeExtraction,
		Message: msg,
		Context: excerpt,
	}
}

// sanitizeControl replaces raw control bytes that the page sometimes
// leaves inside string literals and that encoding/json rejects.
func sanitizeControl(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		if b < 0x20 {
			out[i] = ' '
		} else {
			out[i] = b
		}
	}
	return out
}
