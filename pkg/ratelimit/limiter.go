package ratelimit

import (
	"math/rand"
	"time"
)

// Limiter paces a sequence of outbound requests.
type Limiter interface {
	// Wait blocks when the pacing schedule calls for a pause. It must be
	// called once per request, before the request is issued.
	Wait()
	// Reset redraws the pacing schedule.
	Reset()
}

// Range is an inclusive integer interval to draw from.
type Range struct {
	Min int
	Max int
}

func (r Range) draw(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// RandomInterval forces a randomly chosen pause after a randomly chosen
// number of calls, then redraws both parameters. The irregular cadence
// imitates a human reader and keeps the request rate under the server's
// abuse threshold. The pause is a real blocking sleep; the pacing
// contract depends on it never being skipped or run concurrently.
type RandomInterval struct {
	steps Range
	delay Range
	rng   *rand.Rand
	sleep func(time.Duration)

	nextSteps int
	nextDelay time.Duration
}

// NewRandomInterval creates a pacer that pauses for a number of seconds
// drawn from the delay range after a number of calls drawn from the
// steps range. A nil rng gets a time-seeded source; passing an
// explicitly seeded one makes the schedule deterministic.
func NewRandomInterval(steps, delay Range, rng *rand.Rand) *RandomInterval {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	ri := &RandomInterval{
		steps: steps,
		delay: delay,
		rng:   rng,
		sleep: time.Sleep,
	}
	ri.Reset()
	return ri
}

// Reset redraws the call countdown and the pending pause duration.
func (ri *RandomInterval) Reset() {
	ri.nextSteps = ri.steps.draw(ri.rng)
	if ri.nextSteps < 1 {
		ri.nextSteps = 1
	}
	ri.nextDelay = time.Duration(ri.delay.draw(ri.rng)) * time.Second
}

// Wait counts down one call. When the countdown hits zero it blocks for
// the pending delay and redraws the schedule; the call then proceeds
// regardless, so the pause happens before a request, never instead of
// one.
func (ri *RandomInterval) Wait() {
	ri.nextSteps--
	if ri.nextSteps == 0 {
		ri.sleep(ri.nextDelay)
		ri.Reset()
	}
}
