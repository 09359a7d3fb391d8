// Package feed implements per-user timeline iteration and the
// round-robin merge of multiple users into one record stream.
//
// A Feed steps through one user's timeline a page at a time, pacing
// every request through a shared rate limiter. Its page bound comes
// from the profile snapshot taken at construction; single bad pages are
// skipped, not fatal. A Merger interleaves any number of feeds: each
// round takes one page from every feed in input order, so the merged
// output is deterministic for deterministic responses.
package feed
