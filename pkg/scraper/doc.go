// Package scraper wires the API client, the rate limiter, and the feed
// merger into a single run over a set of users.
package scraper
