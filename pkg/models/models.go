package models

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the timezone-naive ISO-8601 form used for emitted records.
const TimestampLayout = "2006-01-02T15:04:05"

// postsPerPage is the fixed page size of the timeline listing endpoint.
const postsPerPage = 10

// Timestamp is a timezone-naive creation time. It marshals to the bare
// ISO-8601 form without an offset, matching the output record contract.
type Timestamp struct {
	time.Time
}

// MarshalJSON serializes the timestamp as an ISO-8601 string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

// UnmarshalJSON parses an ISO-8601 string without an offset.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// UserProfile is the one-time identity/statistics snapshot for a user.
// It is never mutated after the initial lookup; pagination bounds are
// derived from the snapshot, not refreshed during a run.
type UserProfile struct {
	ID             json.Number `json:"id"`
	ScreenName     string      `json:"screen_name"`
	FollowersCount int         `json:"followers_count"`
	StatusesCount  int         `json:"statuses_count"`
	Description    string      `json:"description"`
	AvatarURL      string      `json:"avatar_hd"`
}

// TotalPages returns the number of timeline pages implied by the
// snapshot's status count. A zero or negative count means zero pages.
func (p *UserProfile) TotalPages() int {
	if p.StatusesCount <= 0 {
		return 0
	}
	return (p.StatusesCount + postsPerPage - 1) / postsPerPage
}

// Sanitize applies clean to every string-valued field of the profile.
func (p *UserProfile) Sanitize(clean func(string) string) {
	p.ScreenName = clean(p.ScreenName)
	p.Description = clean(p.Description)
	p.AvatarURL = clean(p.AvatarURL)
}

// PostRecord is the canonical shape of one collected post. Field
// declaration order is the emission order of the output stream. IDs are
// kept as json.Number so source ids beyond 64-bit display round-trip
// exactly.
type PostRecord struct {
	UserID         json.Number `json:"user_id"`
	UserName       string      `json:"user_name"`
	ID             json.Number `json:"id"`
	Text           string      `json:"text"`
	Images         []string    `json:"images"`
	Created        Timestamp   `json:"created"`
	AttitudesCount int         `json:"attitudes_count"`
	CommentsCount  int         `json:"comments_count"`
	RepostsCount   int         `json:"reposts_count"`
	Topics         []string    `json:"topics"`
	AtUsers        []string    `json:"at_users"`
	IsLongText     bool        `json:"is_long_text"`
}

// Sanitize applies clean to every string-valued field of the record,
// including the elements of its string slices.
func (r *PostRecord) Sanitize(clean func(string) string) {
	r.UserName = clean(r.UserName)
	r.Text = clean(r.Text)
	for i, s := range r.Images {
		r.Images[i] = clean(s)
	}
	for i, s := range r.Topics {
		r.Topics[i] = clean(s)
	}
	for i, s := range r.AtUsers {
		r.AtUsers[i] = clean(s)
	}
}
