package weibo

import (
	"encoding/json"
	"fmt"
	"time"

	"wbscraper/pkg/errors"
	"wbscraper/pkg/models"
	"wbscraper/pkg/normalize"
)

// ParseMblog converts a raw post into a canonical PostRecord. now
// anchors the resolution of relative creation times, so callers decide
// what "fetch time" means (tests pass a fixed instant).
func ParseMblog(mb *Mblog, now time.Time) (*models.PostRecord, error) {
	if mb == nil || mb.User == nil {
		return nil, errors.New(errors.ErrorTypeParsing, "post has no author object")
	}

	created, err := normalize.Date(mb.CreatedAt, now)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("post %s: %v", mb.ID, err),
		}
	}

	rec := &models.PostRecord{
		UserID:         numberOrZero(mb.User.ID),
		UserName:       mb.User.ScreenName,
		ID:             numberOrZero(mb.ID),
		Text:           normalize.FlattenHTML(mb.Text),
		Images:         mb.ImageURLs(),
		Created:        models.Timestamp{Time: created},
		AttitudesCount: mb.AttitudesCount.Int(),
		CommentsCount:  mb.CommentsCount.Int(),
		RepostsCount:   mb.RepostsCount.Int(),
		Topics:         normalize.Topics(mb.Text),
		AtUsers:        normalize.Mentions(mb.Text),
		IsLongText:     mb.IsLongText,
	}
	rec.Sanitize(normalize.CleanText)
	return rec, nil
}

// numberOrZero guards against absent id fields, which would otherwise
// marshal as invalid JSON.
func numberOrZero(n json.Number) json.Number {
	if n == "" {
		return "0"
	}
	return n
}
