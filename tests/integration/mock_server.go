package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// MockWeiboServer simulates the mobile container API and the detail
// pages it links to. Users and their timeline pages are registered up
// front; the server answers profile lookups, timeline pages, and
// long-post detail requests from that in-memory state.
type MockWeiboServer struct {
	server *httptest.Server

	mu             sync.RWMutex
	users          map[string]*mockUser
	details        map[string]mockDetail // post id -> detail page content
	errorResponses map[string]int        // containerid -> status code

	requestCount int32
	containerLog []string
}

type mockUser struct {
	screenName string
	followers  string // raw value, may be abbreviated like "2.8万"
	statuses   int
	pages      map[int][]mockPost
}

// mockDetail is the long-post payload served by a detail page.
type mockDetail struct {
	uid      string
	fullText string
}

// mockPost is one card of a timeline page.
type mockPost struct {
	ID         string
	Text       string
	CreatedAt  string
	Attitudes  interface{}
	Comments   interface{}
	Reposts    interface{}
	IsLongText bool
	Retweeted  bool
	CardType   int // zero means the post card type
}

// NewMockWeiboServer creates a mock API server with no users.
func NewMockWeiboServer() *MockWeiboServer {
	m := &MockWeiboServer{
		users:          make(map[string]*mockUser),
		details:        make(map[string]mockDetail),
		errorResponses: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/container/getIndex", m.handleIndex)
	mux.HandleFunc("/detail/", m.handleDetail)

	m.server = httptest.NewServer(mux)
	return m
}

// AddUser registers a user profile. followers may be an abbreviated
// string as served for large accounts.
func (m *MockWeiboServer) AddUser(uid, screenName, followers string, statuses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[uid] = &mockUser{
		screenName: screenName,
		followers:  followers,
		statuses:   statuses,
		pages:      make(map[int][]mockPost),
	}
}

// AddPage registers one timeline page for a registered user.
func (m *MockWeiboServer) AddPage(uid string, page int, posts ...mockPost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[uid].pages[page] = posts
}

// SetDetail registers the full text served by a post's detail page.
func (m *MockWeiboServer) SetDetail(uid, postID, fullText string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details[postID] = mockDetail{uid: uid, fullText: fullText}
}

// SetErrorResponse makes requests for a containerid fail with code.
func (m *MockWeiboServer) SetErrorResponse(containerid string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[containerid] = code
}

func (m *MockWeiboServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	containerid := r.URL.Query().Get("containerid")

	m.mu.Lock()
	m.containerLog = append(m.containerLog, containerid)
	code := m.errorResponses[containerid]
	m.mu.Unlock()

	if code > 0 {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasPrefix(containerid, "100505"):
		m.serveProfile(w, strings.TrimPrefix(containerid, "100505"))
	case strings.HasPrefix(containerid, "107603"):
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		m.servePage(w, strings.TrimPrefix(containerid, "107603"), page)
	default:
		w.Write([]byte(`{"ok":0}`))
	}
}

func (m *MockWeiboServer) serveProfile(w http.ResponseWriter, uid string) {
	m.mu.RLock()
	u := m.users[uid]
	m.mu.RUnlock()

	if u == nil {
		w.Write([]byte(`{"ok":0}`))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok": 1,
		"data": map[string]interface{}{
			"userInfo": map[string]interface{}{
				"id":              json.Number(uid),
				"screen_name":     u.screenName,
				"followers_count": u.followers,
				"statuses_count":  u.statuses,
				"description":     "test account",
				"avatar_hd":       "https://example.invalid/avatar/" + uid + ".jpg",
			},
		},
	})
}

func (m *MockWeiboServer) servePage(w http.ResponseWriter, uid string, page int) {
	m.mu.RLock()
	u := m.users[uid]
	var posts []mockPost
	if u != nil {
		posts = u.pages[page]
	}
	m.mu.RUnlock()

	if posts == nil {
		w.Write([]byte(`{"ok":0}`))
		return
	}

	cards := make([]map[string]interface{}, 0, len(posts))
	for _, p := range posts {
		cardType := p.CardType
		if cardType == 0 {
			cardType = 9
		}
		mblog := map[string]interface{}{
			"id":              json.Number(p.ID),
			"text":            p.Text,
			"created_at":      p.CreatedAt,
			"attitudes_count": p.Attitudes,
			"comments_count":  p.Comments,
			"reposts_count":   p.Reposts,
			"isLongText":      p.IsLongText,
			"user": map[string]interface{}{
				"id":          json.Number(uid),
				"screen_name": u.screenName,
			},
		}
		if p.Retweeted {
			mblog["retweeted_status"] = map[string]interface{}{"id": json.Number("1")}
		}
		cards = append(cards, map[string]interface{}{
			"card_type": cardType,
			"mblog":     mblog,
		})
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":   1,
		"data": map[string]interface{}{"cards": cards},
	})
}

// handleDetail serves the HTML page of a post with its status object
// embedded in an inline script, the way the real detail pages carry it.
func (m *MockWeiboServer) handleDetail(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	postID := strings.TrimPrefix(r.URL.Path, "/detail/")

	m.mu.RLock()
	detail, ok := m.details[postID]
	var owner *mockUser
	if ok {
		owner = m.users[detail.uid]
	}
	m.mu.RUnlock()

	if !ok || owner == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	status, _ := json.Marshal(map[string]interface{}{
		"id":              json.Number(postID),
		"text":            detail.fullText,
		"created_at":      "2024-03-15",
		"attitudes_count": 1,
		"comments_count":  2,
		"reposts_count":   3,
		"isLongText":      true,
		"user": map[string]interface{}{
			"id":          json.Number(detail.uid),
			"screen_name": owner.screenName,
		},
	})

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!doctype html><html><body><script>
var $render_data = [{"status": %s, "call": 1}][0] || {};
var __wb_performance_data = {"hotScheme": "sinaweibo://detail"};
</script></body></html>`, status)
}

// URL returns the base URL of the mock server.
func (m *MockWeiboServer) URL() string {
	return m.server.URL
}

// RequestCount returns the total number of requests served.
func (m *MockWeiboServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// ContainerLog returns the containerids requested, in order.
func (m *MockWeiboServer) ContainerLog() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.containerLog...)
}

// Close shuts down the mock server.
func (m *MockWeiboServer) Close() {
	m.server.Close()
}
