package weibo

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// BaseURL is the base URL of the mobile API
	BaseURL = "https://m.weibo.cn"

	// IndexEndpoint serves both profile and timeline containers
	IndexEndpoint = "/api/container/getIndex"

	// profileContainerPrefix selects the user-info container for a uid
	profileContainerPrefix = "100505"

	// timelineContainerPrefix selects the post-listing container for a uid
	timelineContainerPrefix = "107603"
)

// GetProfileURL constructs the URL for a user's one-time profile lookup.
func GetProfileURL(base, uid string) string {
	params := url.Values{}
	params.Set("containerid", profileContainerPrefix+uid)
	return fmt.Sprintf("%s%s?%s", base, IndexEndpoint, params.Encode())
}

// GetPageURL constructs the URL for one timeline page of a user.
func GetPageURL(base, uid string, page int) string {
	params := url.Values{}
	params.Set("containerid", timelineContainerPrefix+uid)
	params.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s%s?%s", base, IndexEndpoint, params.Encode())
}

// GetDetailURL constructs the detail-page URL for a post. The response
// is an HTML document, not JSON.
func GetDetailURL(base, postID string) string {
	return fmt.Sprintf("%s/detail/%s", base, postID)
}

// IsValidUID reports whether uid is a plain decimal user id.
func IsValidUID(uid string) bool {
	if uid == "" {
		return false
	}
	for _, c := range uid {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
