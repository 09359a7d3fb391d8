// Package normalize converts the raw field encodings of the mobile API
// into canonical typed values: abbreviated counts, relative dates, and
// HTML post bodies.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	wanSuffix     = "万"
	wanPlusSuffix = "万+"

	// zeroWidthSpace shows up in post bodies and screen names.
	zeroWidthSpace = '​'

	dateLayout = "2006-01-02"
)

// Count converts a raw count field to an integer. Plain numerals pass
// through; the ten-thousand suffix (with or without a trailing plus) is
// resolved by digit substitution, so "3万+" becomes 30000 and "1.2万"
// becomes 12000. Suffix families beyond the ten-thousand one are not
// recognized.
func Count(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	wan := false
	switch {
	case strings.HasSuffix(s, wanPlusSuffix):
		s = strings.TrimSuffix(s, wanPlusSuffix)
		wan = true
	case strings.HasSuffix(s, wanSuffix):
		s = strings.TrimSuffix(s, wanSuffix)
		wan = true
	}

	if !wan {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("unrecognized count %q: %w", raw, err)
		}
		return n, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n * 10000, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized count %q: %w", raw, err)
	}
	return int(math.Round(f * 10000)), nil
}

// Date resolves a creation-time field against the supplied "now".
// Relative phrasings (刚刚, N分钟前, N小时前, 昨天) are offsets from now;
// a bare month-day date is assumed to be in now's year; anything else
// must be a full YYYY-MM-DD date.
func Date(raw string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	switch {
	case strings.Contains(s, "刚刚"):
		return now, nil
	case strings.Contains(s, "分钟"):
		n, err := strconv.Atoi(s[:strings.Index(s, "分钟")])
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized minute offset %q: %w", raw, err)
		}
		return now.Add(-time.Duration(n) * time.Minute), nil
	case strings.Contains(s, "小时"):
		n, err := strconv.Atoi(s[:strings.Index(s, "小时")])
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized hour offset %q: %w", raw, err)
		}
		return now.Add(-time.Duration(n) * time.Hour), nil
	case strings.Contains(s, "昨天"):
		return now.AddDate(0, 0, -1), nil
	}

	if strings.Count(s, "-") == 1 {
		s = fmt.Sprintf("%d-%s", now.Year(), s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", raw, err)
	}
	return t, nil
}

// CleanText strips the zero-width marker and drops bytes that are not
// valid UTF-8, so every emitted string is representable in the output
// encoding.
func CleanText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == zeroWidthSpace || r == utf8.RuneError {
			return -1
		}
		return r
	}, s)
}

// FlattenHTML reduces a post body fragment to its plain text content.
func FlattenHTML(fragment string) string {
	doc, err := parseFragment(fragment)
	if err != nil {
		return fragment
	}
	return doc.Text()
}

// Topics collects hashtag topics from a post body fragment. Topics are
// the text of surl-text spans delimited by a leading and trailing #;
// the delimiters are stripped.
func Topics(fragment string) []string {
	topics := []string{}
	doc, err := parseFragment(fragment)
	if err != nil {
		return topics
	}
	doc.Find("span.surl-text").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if len(text) > 2 && strings.HasPrefix(text, "#") && strings.HasSuffix(text, "#") {
			topics = append(topics, text[1:len(text)-1])
		}
	})
	return topics
}

// Mentions collects mentioned user handles from a post body fragment.
// A mention is an anchor whose /n/<handle> link target matches its own
// visible @handle text; the leading @ is stripped.
func Mentions(fragment string) []string {
	users := []string{}
	doc, err := parseFragment(fragment)
	if err != nil {
		return users
	}
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || len(href) < 3 {
			return
		}
		text := sel.Text()
		if text == "@"+href[3:] {
			users = append(users, text[1:])
		}
	})
	return users
}

func parseFragment(fragment string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(fragment))
}
