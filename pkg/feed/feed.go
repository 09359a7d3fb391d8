package feed

import (
	"time"

	"wbscraper/pkg/errors"
	"wbscraper/pkg/logger"
	"wbscraper/pkg/models"
	"wbscraper/pkg/ratelimit"
	"wbscraper/pkg/weibo"
)

// PageFetcher is the slice of the API client a feed drives.
type PageFetcher interface {
	FetchPage(uid string, page int) (*weibo.IndexResponse, error)
	FetchLong(postID string, now time.Time) (*models.PostRecord, error)
}

// mode selects between single-shot page fetches and bounded iteration.
type mode int

const (
	modeUnbounded mode = iota
	modeBounded
)

// Feed is a stateful per-user page iterator. It owns a read-only
// profile snapshot and a page counter; in bounded mode it stops once
// the counter passes the page count derived from the snapshot. The
// bound is computed once at construction and never refreshed, so a run
// over an account that keeps posting stays finite.
type Feed struct {
	profile *models.UserProfile
	client  PageFetcher
	limiter ratelimit.Limiter
	logger  logger.Logger
	clock   func() time.Time

	mode        mode
	page        int
	totalPages  int
	resolveLong bool
}

// New creates a single-shot feed for profile. resolveLong fetches the
// detail page for truncated posts as they are encountered.
func New(profile *models.UserProfile, client PageFetcher, limiter ratelimit.Limiter, resolveLong bool, log logger.Logger) *Feed {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Feed{
		profile:     profile,
		client:      client,
		limiter:     limiter,
		logger:      log,
		clock:       time.Now,
		page:        1,
		totalPages:  profile.TotalPages(),
		resolveLong: resolveLong,
	}
}

// Iter returns a bounded copy of the feed that ends after the page
// count declared by the profile snapshot.
func (f *Feed) Iter() *Feed {
	clone := *f
	clone.mode = modeBounded
	return &clone
}

// Profile returns the feed's immutable profile snapshot.
func (f *Feed) Profile() *models.UserProfile {
	return f.profile
}

// Page returns the next page number the feed will request.
func (f *Feed) Page() int {
	return f.page
}

// Next fetches one page and returns its post records in source order.
// ok is false once a bounded feed is exhausted; the exhaustion check
// happens before any request is issued, so a profile implying zero
// pages never fetches at all. A failed or not-ok page yields an empty
// record set with ok still true: the page counter has already advanced,
// a transient hiccup does not stall or end the feed.
func (f *Feed) Next() ([]*models.PostRecord, bool) {
	if f.mode == modeBounded && f.page > f.totalPages {
		return nil, false
	}

	page := f.page
	f.limiter.Wait()
	resp, err := f.client.FetchPage(f.profile.ID.String(), page)
	f.page++

	if err != nil {
		f.logger.WarnWithFields("page fetch failed, skipping", map[string]interface{}{
			"user_id": f.profile.ID.String(),
			"page":    page,
			"error":   err.Error(),
		})
		return []*models.PostRecord{}, true
	}
	if !resp.OK() {
		f.logger.DebugWithFields("page returned no data", map[string]interface{}{
			"user_id": f.profile.ID.String(),
			"page":    page,
		})
		return []*models.PostRecord{}, true
	}

	now := f.clock()
	records := make([]*models.PostRecord, 0, len(resp.Data.Cards))
	for i := range resp.Data.Cards {
		card := &resp.Data.Cards[i]
		if !card.IsPost() {
			continue
		}
		rec, err := weibo.ParseMblog(card.Mblog, now)
		if err != nil {
			f.logger.WarnWithFields("card parse failed, skipping", map[string]interface{}{
				"user_id": f.profile.ID.String(),
				"page":    page,
				"error":   err.Error(),
			})
			continue
		}
		if f.resolveLong && rec.IsLongText {
			rec = f.fetchLong(rec, now)
		}
		records = append(records, rec)
	}
	return records, true
}

// fetchLong replaces a truncated record with its reconstructed form.
// On failure the truncated record is kept; an extraction-format failure
// is reported as such, since it means the detail-page heuristic needs
// updating rather than the network misbehaving.
func (f *Feed) fetchLong(rec *models.PostRecord, now time.Time) *models.PostRecord {
	f.limiter.Wait()
	full, err := f.client.FetchLong(rec.ID.String(), now)
	if err != nil {
		fields := map[string]interface{}{
			"user_id": f.profile.ID.String(),
			"post_id": rec.ID.String(),
			"error":   err.Error(),
		}
		if errors.IsType(err, errors.ErrorTypeExtraction) {
			f.logger.ErrorWithFields("long post extraction failed, detail page layout may have changed", fields)
		} else {
			f.logger.WarnWithFields("long post fetch failed, keeping truncated text", fields)
		}
		return rec
	}
	return full
}
