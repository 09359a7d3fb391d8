// Package weibo implements a client for the m.weibo.cn mobile API.
//
// The API exposes one container endpoint that serves both profile
// lookups and paginated timeline listings, keyed by a containerid
// derived from the user id with a fixed numeric prefix. Timeline
// responses are lists of cards; only card_type 9 entries without a
// retweeted_status sub-object represent original posts.
//
// Posts whose body was truncated by the listing endpoint (isLongText)
// can be reconstructed from the per-post detail page, an HTML document
// with the full post object embedded as inline JSON. The extraction of
// that object is a textual heuristic against known field markers and is
// kept behind ExtractEmbeddedStatus so it can be tested and replaced in
// isolation when the page layout changes.
//
// Raw API objects are converted into the canonical record shapes of
// pkg/models through pkg/normalize.
package weibo
