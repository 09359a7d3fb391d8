package feed

import (
	"context"

	"wbscraper/pkg/logger"
	"wbscraper/pkg/models"
)

// RecordSink receives merged records one at a time, in merge order.
type RecordSink interface {
	Write(rec *models.PostRecord) error
}

// Merger drives a set of feeds in lock-step rounds: every round asks
// each feed for exactly one page, in the caller-supplied feed order,
// and flattens the round's pages into the sink. Feeds that run out
// contribute empty pages, so unequal-length feeds never truncate each
// other; the merger stops after the first round in which every feed is
// exhausted.
type Merger struct {
	feeds  []*Feed
	logger logger.Logger
	rounds int
}

// NewMerger creates a merger over feeds. The feeds are switched to
// bounded iteration; their input order fixes the output interleaving.
func NewMerger(feeds []*Feed, log logger.Logger) *Merger {
	if log == nil {
		log = logger.GetLogger()
	}
	bounded := make([]*Feed, len(feeds))
	for i, f := range feeds {
		bounded[i] = f.Iter()
	}
	return &Merger{feeds: bounded, logger: log}
}

// Rounds returns the number of fully completed rounds, for progress and
// interrupt reporting.
func (m *Merger) Rounds() int {
	return m.rounds
}

// Run drives all feeds until exhaustion or until ctx is cancelled,
// writing each page's records to the sink as the page completes. On
// cancellation the in-flight page is finished and emitted whole, then
// Run returns the completed round count; cancellation is not an error.
func (m *Merger) Run(ctx context.Context, sink RecordSink) (int, error) {
	for {
		produced := false
		for _, f := range m.feeds {
			if ctx.Err() != nil {
				m.logger.InfoWithFields("merge interrupted", map[string]interface{}{
					"completed_rounds": m.rounds,
				})
				return m.rounds, nil
			}

			records, ok := f.Next()
			if !ok {
				continue
			}
			produced = true
			for _, rec := range records {
				if err := sink.Write(rec); err != nil {
					return m.rounds, err
				}
			}
		}
		if !produced {
			return m.rounds, nil
		}
		m.rounds++
		m.logger.DebugWithFields("round completed", map[string]interface{}{
			"round": m.rounds,
		})
	}
}
