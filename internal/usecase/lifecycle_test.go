package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecyclePage(t *testing.T) {
	tests := []struct {
		reason string
		base   string
		want   string
		ok     bool
	}{
		{"install", "", DefaultInfoPageURL, true},
		{"update", "", DefaultInfoPageURL + "#changelog", true},
		{"UPDATE", "https://example.com/info", "https://example.com/info#changelog", true},
		{"chrome_update", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		got, ok := LifecyclePage(tt.base, tt.reason)
		assert.Equal(t, tt.ok, ok, tt.reason)
		assert.Equal(t, tt.want, got, tt.reason)
	}
}
