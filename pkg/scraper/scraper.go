package scraper

import (
	"context"
	"fmt"
	"math/rand"

	"wbscraper/pkg/config"
	"wbscraper/pkg/feed"
	"wbscraper/pkg/logger"
	"wbscraper/pkg/models"
	"wbscraper/pkg/ratelimit"
	"wbscraper/pkg/weibo"
)

// Scraper collects the public post history of a set of users into one
// merged record stream.
type Scraper struct {
	client  Client
	limiter ratelimit.Limiter
	config  *config.Config
	logger  logger.Logger
}

// Summary describes the outcome of a run.
type Summary struct {
	Users       int
	Rounds      int
	Records     int
	Interrupted bool
}

// New creates a Scraper from cfg. All feeds share one client and one
// limiter, which is what keeps the overall request pace global.
func New(cfg *config.Config) *Scraper {
	log := logger.GetLogger()

	client := weibo.NewClient(cfg.HTTP.BaseURL, cfg.HTTP.Timeout, log)
	if cfg.HTTP.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.HTTP.UserAgent)
	}

	var rng *rand.Rand
	if cfg.RateLimit.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.RateLimit.Seed))
	}
	limiter := ratelimit.NewRandomInterval(
		ratelimit.Range{Min: cfg.RateLimit.MinSteps, Max: cfg.RateLimit.MaxSteps},
		ratelimit.Range{Min: cfg.RateLimit.MinDelaySeconds, Max: cfg.RateLimit.MaxDelaySeconds},
		rng,
	)

	return &Scraper{
		client:  client,
		limiter: limiter,
		config:  cfg,
		logger:  log,
	}
}

// Run looks up every uid, then drives all feeds in merged rounds until
// exhaustion or cancellation, writing records to sink in merge order.
// Lookups happen up front so a missing user fails the run before any
// timeline page is fetched; the error names the offending uid.
func (s *Scraper) Run(ctx context.Context, uids []string, sink feed.RecordSink) (*Summary, error) {
	feeds := make([]*feed.Feed, 0, len(uids))
	for _, uid := range uids {
		profile, err := s.client.FetchProfile(uid)
		if err != nil {
			return nil, fmt.Errorf("profile lookup for user %s: %w", uid, err)
		}
		s.logger.InfoWithFields("resolved user profile", map[string]interface{}{
			"user_id":        uid,
			"screen_name":    profile.ScreenName,
			"statuses_count": profile.StatusesCount,
			"pages":          profile.TotalPages(),
		})
		feeds = append(feeds, feed.New(profile, s.client, s.limiter, s.config.Output.ResolveLongText, s.logger))
	}

	merger := feed.NewMerger(feeds, s.logger)
	counting := &countingSink{next: sink}
	rounds, err := merger.Run(ctx, counting)

	summary := &Summary{
		Users:       len(feeds),
		Rounds:      rounds,
		Records:     counting.count,
		Interrupted: ctx.Err() != nil,
	}
	if err != nil {
		return summary, err
	}

	s.logger.InfoWithFields("run finished", map[string]interface{}{
		"users":       summary.Users,
		"rounds":      summary.Rounds,
		"records":     summary.Records,
		"interrupted": summary.Interrupted,
	})
	return summary, nil
}

// countingSink counts records on their way to the real sink.
type countingSink struct {
	next  feed.RecordSink
	count int
}

func (c *countingSink) Write(rec *models.PostRecord) error {
	if err := c.next.Write(rec); err != nil {
		return err
	}
	c.count++
	return nil
}
