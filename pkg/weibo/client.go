package weibo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wbscraper/pkg/errors"
	"wbscraper/pkg/logger"
	"wbscraper/pkg/models"
	"wbscraper/pkg/normalize"
)

// Client is an HTTP client for the mobile API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new API client. An empty baseURL selects the
// production host.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if baseURL == "" {
		baseURL = BaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Mobile Safari/537.36",
			"Accept":          "application/json, text/plain, */*",
			"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
			"Referer":         BaseURL + "/",
		},
		baseURL: baseURL,
		logger:  log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	return c.doRequest(req)
}

// getBody performs a GET request and returns the response body after a
// status check.
func (c *Client) getBody(url string) ([]byte, error) {
	resp, err := c.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}
	return body, nil
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(url string, target interface{}) error {
	body, err := c.getBody(url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Context: preview,
		}
	}
	return nil
}

// checkResponseStatus maps HTTP status codes onto the error taxonomy
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &errors.Error{
			Type:    errors.ErrorTypeServer,
			Message: fmt.Sprintf("server returned status %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	default:
		return &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}
}

// FetchProfile fetches the one-time profile snapshot for uid. A
// response without usable user info is a not-found error carrying the
// raw response body for diagnostics.
func (c *Client) FetchProfile(uid string) (*models.UserProfile, error) {
	url := GetProfileURL(c.baseURL, uid)

	c.logger.DebugWithFields("fetching user profile", map[string]interface{}{
		"user_id": uid,
		"url":     url,
	})

	body, err := c.getBody(url)
	if err != nil {
		return nil, err
	}

	var resp IndexResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse profile response: %v", err),
			Context: string(body),
		}
	}
	if !resp.OK() || resp.Data.UserInfo == nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: fmt.Sprintf("cannot find user info for id %s", uid),
			Context: string(body),
		}
	}

	info := resp.Data.UserInfo
	profile := &models.UserProfile{
		ID:             info.ID,
		ScreenName:     info.ScreenName,
		FollowersCount: info.FollowersCount.Int(),
		StatusesCount:  info.StatusesCount.Int(),
		Description:    info.Description,
		AvatarURL:      info.AvatarHD,
	}
	profile.Sanitize(normalize.CleanText)

	c.logger.DebugWithFields("fetched user profile", map[string]interface{}{
		"user_id":        uid,
		"screen_name":    profile.ScreenName,
		"statuses_count": profile.StatusesCount,
	})

	return profile, nil
}

// FetchPage fetches one timeline page for uid.
func (c *Client) FetchPage(uid string, page int) (*IndexResponse, error) {
	url := GetPageURL(c.baseURL, uid, page)

	c.logger.DebugWithFields("fetching timeline page", map[string]interface{}{
		"user_id": uid,
		"page":    page,
	})

	var resp IndexResponse
	if err := c.GetJSON(url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchDetailHTML fetches the detail document for a post.
func (c *Client) FetchDetailHTML(postID string) ([]byte, error) {
	return c.getBody(GetDetailURL(c.baseURL, postID))
}
