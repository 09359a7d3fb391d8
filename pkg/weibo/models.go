package weibo

import (
	"encoding/json"

	"wbscraper/pkg/normalize"
)

// postCardType marks a card that carries an original post.
const postCardType = 9

// IndexResponse is the envelope of the container endpoint.
type IndexResponse struct {
	Ok   int        `json:"ok"`
	Data *IndexData `json:"data"`
}

// OK reports whether the response carries usable data.
func (r *IndexResponse) OK() bool {
	return r.Ok == 1 && r.Data != nil
}

// IndexData wraps the payload of a container response: the user info
// for a profile container, the card list for a timeline container.
type IndexData struct {
	UserInfo *UserInfo `json:"userInfo"`
	Cards    []Card    `json:"cards"`
}

// UserInfo is the raw user object of a profile lookup. Menu and toolbar
// sub-objects of the source payload are not mapped and therefore
// discarded.
type UserInfo struct {
	ID             json.Number `json:"id"`
	ScreenName     string      `json:"screen_name"`
	FollowersCount FlexCount   `json:"followers_count"`
	StatusesCount  FlexCount   `json:"statuses_count"`
	Description    string      `json:"description"`
	AvatarHD       string      `json:"avatar_hd"`
}

// Card is one unit of a timeline page. Only cards of the post type with
// a non-reposted mblog represent original posts.
type Card struct {
	CardType int    `json:"card_type"`
	Mblog    *Mblog `json:"mblog"`
}

// IsPost reports whether the card represents an original post; reposts
// and non-post card types are excluded.
func (c *Card) IsPost() bool {
	return c.CardType == postCardType && c.Mblog != nil && len(c.Mblog.Retweeted) == 0
}

// Mblog is the raw post object inside a card or a detail page.
type Mblog struct {
	ID             json.Number     `json:"id"`
	Text           string          `json:"text"`
	CreatedAt      string          `json:"created_at"`
	AttitudesCount FlexCount       `json:"attitudes_count"`
	CommentsCount  FlexCount       `json:"comments_count"`
	RepostsCount   FlexCount       `json:"reposts_count"`
	IsLongText     bool            `json:"isLongText"`
	User           *MblogUser      `json:"user"`
	Pics           []Pic           `json:"pics"`
	Retweeted      json.RawMessage `json:"retweeted_status"`
}

// ImageURLs returns the full-resolution image URLs of the post.
func (mb *Mblog) ImageURLs() []string {
	urls := make([]string, 0, len(mb.Pics))
	for _, p := range mb.Pics {
		urls = append(urls, p.Large.URL)
	}
	return urls
}

// MblogUser is the author stub embedded in a post.
type MblogUser struct {
	ID         json.Number `json:"id"`
	ScreenName string      `json:"screen_name"`
}

// Pic is one image attachment of a post.
type Pic struct {
	Large PicVersion `json:"large"`
}

// PicVersion is one resolution variant of an attachment.
type PicVersion struct {
	URL string `json:"url"`
}

// FlexCount is a count field that may arrive as a JSON number or as an
// abbreviated string such as "1.2万+".
type FlexCount int

// UnmarshalJSON accepts both encodings and normalizes to an integer.
func (c *FlexCount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := normalize.Count(s)
		if err != nil {
			return err
		}
		*c = FlexCount(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = FlexCount(n)
	return nil
}

// Int returns the count as a plain int.
func (c FlexCount) Int() int {
	return int(c)
}
