package weibo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`28`, 28},
		{`"28"`, 28},
		{`"3万+"`, 30000},
		{`"1.2万"`, 12000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c FlexCount
			require.NoError(t, json.Unmarshal([]byte(tt.in), &c))
			assert.Equal(t, tt.want, c.Int())
		})
	}

	var c FlexCount
	assert.Error(t, json.Unmarshal([]byte(`"许多"`), &c))
}

func TestCardIsPost(t *testing.T) {
	post := Card{CardType: 9, Mblog: &Mblog{ID: "1"}}
	repost := Card{CardType: 9, Mblog: &Mblog{ID: "2", Retweeted: json.RawMessage(`{"id":"3"}`)}}
	banner := Card{CardType: 11}
	empty := Card{CardType: 9}

	assert.True(t, post.IsPost())
	assert.False(t, repost.IsPost())
	assert.False(t, banner.IsPost())
	assert.False(t, empty.IsPost())
}

func TestParseMblog(t *testing.T) {
	raw := `{
		"id": "4409147391146888",
		"text": "今天的天气 <span class=\"surl-text\">#好天气#</span> 感谢 <a href=\"/n/气象台\">@气象台</a>",
		"created_at": "5分钟前",
		"attitudes_count": "1.2万+",
		"comments_count": 3,
		"reposts_count": 0,
		"isLongText": false,
		"user": {"id": 1749127163, "screen_name": "某​人"},
		"pics": [
			{"large": {"url": "https://wx1.sinaimg.cn/large/a.jpg"}},
			{"large": {"url": "https://wx1.sinaimg.cn/large/b.jpg"}}
		]
	}`
	var mb Mblog
	require.NoError(t, json.Unmarshal([]byte(raw), &mb))

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rec, err := ParseMblog(&mb, now)
	require.NoError(t, err)

	assert.Equal(t, json.Number("1749127163"), rec.UserID)
	assert.Equal(t, "某人", rec.UserName, "zero-width marker must be stripped")
	assert.Equal(t, json.Number("4409147391146888"), rec.ID)
	assert.Equal(t, "今天的天气 #好天气# 感谢 @气象台", rec.Text)
	assert.Equal(t, []string{
		"https://wx1.sinaimg.cn/large/a.jpg",
		"https://wx1.sinaimg.cn/large/b.jpg",
	}, rec.Images)
	assert.True(t, now.Add(-5*time.Minute).Equal(rec.Created.Time))
	assert.Equal(t, 12000, rec.AttitudesCount)
	assert.Equal(t, 3, rec.CommentsCount)
	assert.Equal(t, 0, rec.RepostsCount)
	assert.Equal(t, []string{"好天气"}, rec.Topics)
	assert.Equal(t, []string{"气象台"}, rec.AtUsers)
	assert.False(t, rec.IsLongText)
}

func TestParseMblogNoImages(t *testing.T) {
	mb := &Mblog{
		ID:        "1",
		Text:      "纯文字",
		CreatedAt: "2019-11-30",
		User:      &MblogUser{ID: "2", ScreenName: "作者"},
	}
	rec, err := ParseMblog(mb, time.Now())
	require.NoError(t, err)

	// empty collections serialize as [] rather than null
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"images":[]`)
	assert.Contains(t, string(data), `"topics":[]`)
	assert.Contains(t, string(data), `"at_users":[]`)
}

func TestParseMblogRejectsBadInput(t *testing.T) {
	_, err := ParseMblog(nil, time.Now())
	assert.Error(t, err)

	_, err = ParseMblog(&Mblog{ID: "1", CreatedAt: "昨天"}, time.Now())
	assert.Error(t, err, "missing author")

	_, err = ParseMblog(&Mblog{
		ID:        "1",
		CreatedAt: "下周",
		User:      &MblogUser{ID: "2"},
	}, time.Now())
	assert.Error(t, err, "unparsable date")
}
