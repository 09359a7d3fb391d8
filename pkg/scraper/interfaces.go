package scraper

import (
	"time"

	"wbscraper/pkg/models"
	"wbscraper/pkg/weibo"
)

// Client defines the API operations the scraper drives. *weibo.Client
// satisfies it; tests substitute a fake.
type Client interface {
	FetchProfile(uid string) (*models.UserProfile, error)
	FetchPage(uid string, page int) (*weibo.IndexResponse, error)
	FetchLong(postID string, now time.Time) (*models.PostRecord, error)
}
