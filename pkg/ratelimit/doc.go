// Package ratelimit paces outbound requests to avoid tripping
// server-side abuse detection.
//
// The RandomInterval limiter reproduces the cadence of a human reader:
// after a randomly drawn number of requests it blocks the calling
// goroutine for a randomly drawn number of seconds, then redraws both
// parameters. All request-issuing code shares one limiter and calls
// Wait before each request, which serializes the global request pace.
//
// Usage:
//
//	// pause 6-10s after every 1-5 requests
//	limiter := ratelimit.NewRandomInterval(
//	    ratelimit.Range{Min: 1, Max: 5},
//	    ratelimit.Range{Min: 6, Max: 10},
//	    nil,
//	)
//
//	limiter.Wait()
//	// issue request
package ratelimit
