//go:build !integration

package envutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIntFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"unset uses default", "", 1},
		{"valid value", "3", 3},
		{"lower bound", "1", 1},
		{"below range uses default", "0", 1},
		{"above range uses default", "4", 1},
		{"not a number uses default", "many", 1},
		{"surrounding whitespace", " 2 ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GIT_TRACKER_EVENT_PAGES", tt.value)
			got := GetIntFromEnv("GIT_TRACKER_EVENT_PAGES", 1, 1, 3, nil)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFirstSet(t *testing.T) {
	t.Setenv("GH_PAT", "")
	t.Setenv("GH_TOKEN", "from-gh-token")
	t.Setenv("GITHUB_TOKEN", "from-github-token")

	name, value := FirstSet("GH_PAT", "GH_TOKEN", "GITHUB_TOKEN")
	assert.Equal(t, "GH_TOKEN", name)
	assert.Equal(t, "from-gh-token", value)

	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	name, value = FirstSet("GH_PAT", "GH_TOKEN", "GITHUB_TOKEN")
	assert.Empty(t, name)
	assert.Empty(t, value)
}
