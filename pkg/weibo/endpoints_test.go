package weibo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetProfileURL(t *testing.T) {
	url := GetProfileURL(BaseURL, "1669879400")
	assert.Equal(t, "https://m.weibo.cn/api/container/getIndex?containerid=1005051669879400", url)
}

func TestGetPageURL(t *testing.T) {
	url := GetPageURL(BaseURL, "1669879400", 3)
	assert.Equal(t, "https://m.weibo.cn/api/container/getIndex?containerid=1076031669879400&page=3", url)
}

func TestGetDetailURL(t *testing.T) {
	url := GetDetailURL(BaseURL, "4930345678901234")
	assert.Equal(t, "https://m.weibo.cn/detail/4930345678901234", url)
}

func TestIsValidUID(t *testing.T) {
	tests := []struct {
		uid   string
		valid bool
	}{
		{"1669879400", true},
		{"1", true},
		{"", false},
		{"16698794OO", false},
		{"-1669879400", false},
		{"user123", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidUID(tt.uid), "uid %q", tt.uid)
	}
}
