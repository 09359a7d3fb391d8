package feed

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbscraper/pkg/errors"
	"wbscraper/pkg/logger"
	"wbscraper/pkg/models"
	"wbscraper/pkg/weibo"
)

// nopLimiter counts pacing calls without sleeping.
type nopLimiter struct {
	waits int
}

func (l *nopLimiter) Wait()  { l.waits++ }
func (l *nopLimiter) Reset() {}

// fakeFetcher serves canned pages keyed by uid and page number.
type fakeFetcher struct {
	pages   map[string]map[int]*weibo.IndexResponse
	pageErr map[int]error
	long    map[string]*models.PostRecord
	longErr error

	fetched []string
}

func (f *fakeFetcher) FetchPage(uid string, page int) (*weibo.IndexResponse, error) {
	f.fetched = append(f.fetched, fmt.Sprintf("%s/%d", uid, page))
	if err, ok := f.pageErr[page]; ok {
		return nil, err
	}
	if byPage, ok := f.pages[uid]; ok {
		if resp, ok := byPage[page]; ok {
			return resp, nil
		}
	}
	return &weibo.IndexResponse{Ok: 0}, nil
}

func (f *fakeFetcher) FetchLong(postID string, now time.Time) (*models.PostRecord, error) {
	if f.longErr != nil {
		return nil, f.longErr
	}
	if rec, ok := f.long[postID]; ok {
		return rec, nil
	}
	return nil, errors.New(errors.ErrorTypeNotFound, "no such post")
}

func profileWithStatuses(uid string, statuses int) *models.UserProfile {
	return &models.UserProfile{
		ID:            json.Number(uid),
		ScreenName:    "user-" + uid,
		StatusesCount: statuses,
	}
}

func pageOf(ids ...string) *weibo.IndexResponse {
	cards := make([]weibo.Card, len(ids))
	for i, id := range ids {
		cards[i] = weibo.Card{
			CardType: 9,
			Mblog: &weibo.Mblog{
				ID:        json.Number(id),
				Text:      "post " + id,
				CreatedAt: "2024-01-15",
				User:      &weibo.MblogUser{ID: "1", ScreenName: "author"},
			},
		}
	}
	return &weibo.IndexResponse{Ok: 1, Data: &weibo.IndexData{Cards: cards}}
}

func TestFeedBoundedIssuesExactPageCount(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]map[int]*weibo.IndexResponse{
		"7": {1: pageOf("11"), 2: pageOf("12"), 3: pageOf("13")},
	}}
	limiter := &nopLimiter{}

	// 25 statuses imply 3 pages
	f := New(profileWithStatuses("7", 25), fetcher, limiter, false, logger.Nop()).Iter()

	var total int
	for {
		records, ok := f.Next()
		if !ok {
			break
		}
		total += len(records)
	}

	assert.Equal(t, []string{"7/1", "7/2", "7/3"}, fetcher.fetched,
		"exactly 3 page requests, no 4th")
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, limiter.waits, "every request is paced")

	// exhaustion is terminal
	_, ok := f.Next()
	assert.False(t, ok)
	assert.Len(t, fetcher.fetched, 3)
}

func TestFeedZeroPagesNeverFetches(t *testing.T) {
	fetcher := &fakeFetcher{}
	f := New(profileWithStatuses("7", 0), fetcher, &nopLimiter{}, false, logger.Nop()).Iter()

	_, ok := f.Next()
	assert.False(t, ok)
	assert.Empty(t, fetcher.fetched)
}

func TestFeedUnboundedKeepsFetching(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]map[int]*weibo.IndexResponse{
		"7": {1: pageOf("11")},
	}}
	// without Iter the feed is single-shot: no page bound applies
	f := New(profileWithStatuses("7", 10), fetcher, &nopLimiter{}, false, logger.Nop())

	for i := 0; i < 3; i++ {
		_, ok := f.Next()
		assert.True(t, ok)
	}
	assert.Len(t, fetcher.fetched, 3)
}

func TestFeedSkipsFailedPage(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]map[int]*weibo.IndexResponse{
			"7": {2: pageOf("21", "22")},
		},
		pageErr: map[int]error{1: errors.New(errors.ErrorTypeServer, "502")},
	}
	log := logger.NewTestLogger()
	f := New(profileWithStatuses("7", 15), fetcher, &nopLimiter{}, false, log).Iter()

	records, ok := f.Next()
	require.True(t, ok, "a transient page failure does not end the feed")
	assert.Empty(t, records)
	assert.True(t, log.HasMessage("WARN", "page fetch failed, skipping"))

	records, ok = f.Next()
	require.True(t, ok)
	assert.Len(t, records, 2, "the counter advanced past the bad page")

	_, ok = f.Next()
	assert.False(t, ok)
}

func TestFeedFiltersNonPosts(t *testing.T) {
	resp := pageOf("11")
	resp.Data.Cards = append(resp.Data.Cards,
		weibo.Card{CardType: 9, Mblog: &weibo.Mblog{
			ID:        "12",
			CreatedAt: "2024-01-15",
			User:      &weibo.MblogUser{ID: "1"},
			Retweeted: json.RawMessage(`{"id":"9"}`),
		}},
		weibo.Card{CardType: 11},
	)
	fetcher := &fakeFetcher{pages: map[string]map[int]*weibo.IndexResponse{"7": {1: resp}}}
	f := New(profileWithStatuses("7", 5), fetcher, &nopLimiter{}, false, logger.Nop()).Iter()

	records, ok := f.Next()
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, json.Number("11"), records[0].ID)
}

func longPage(id string) *weibo.IndexResponse {
	resp := pageOf(id)
	resp.Data.Cards[0].Mblog.IsLongText = true
	resp.Data.Cards[0].Mblog.Text = "截断的文字..."
	return resp
}

func TestFeedResolvesLongText(t *testing.T) {
	full := &models.PostRecord{ID: "11", Text: "完整的全文", IsLongText: true}
	fetcher := &fakeFetcher{
		pages: map[string]map[int]*weibo.IndexResponse{"7": {1: longPage("11")}},
		long:  map[string]*models.PostRecord{"11": full},
	}
	limiter := &nopLimiter{}
	f := New(profileWithStatuses("7", 5), fetcher, limiter, true, logger.Nop()).Iter()

	records, ok := f.Next()
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "完整的全文", records[0].Text)
	assert.Equal(t, 2, limiter.waits, "the detail fetch is paced too")
}

func TestFeedKeepsTruncatedOnExtractionFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		pages:   map[string]map[int]*weibo.IndexResponse{"7": {1: longPage("11")}},
		longErr: errors.New(errors.ErrorTypeExtraction, "hotScheme marker not found"),
	}
	log := logger.NewTestLogger()
	f := New(profileWithStatuses("7", 5), fetcher, &nopLimiter{}, true, log).Iter()

	records, ok := f.Next()
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "截断的文字...", records[0].Text)
	assert.True(t, records[0].IsLongText)
	assert.True(t, log.HasMessage("ERROR", "long post extraction failed, detail page layout may have changed"))
}

func TestFeedResolutionDisabled(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]map[int]*weibo.IndexResponse{"7": {1: longPage("11")}},
		long:  map[string]*models.PostRecord{"11": {ID: "11", Text: "完整的全文"}},
	}
	limiter := &nopLimiter{}
	f := New(profileWithStatuses("7", 5), fetcher, limiter, false, logger.Nop()).Iter()

	records, ok := f.Next()
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "截断的文字...", records[0].Text)
	assert.Equal(t, 1, limiter.waits, "no detail fetch when resolution is off")
}
