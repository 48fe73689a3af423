package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"simple title", "Forest Morning", "forest-morning"},
		{"mixed case and trim", "  Dawn Chorus  ", "dawn-chorus"},
		{"whitespace runs", "rain \t on   tent", "rain-on-tent"},
		{"strips symbols", "Ocean (Night) #2!", "ocean-night-2"},
		{"collapses hyphens", "wind -- in--reeds", "wind-in-reeds"},
		{"underscores become hyphens", "city_traffic_loop", "city-traffic-loop"},
		{"non-ascii dropped", "café テスト field", "caf-field"},
		{"numbers kept", "48kHz Session 001", "48khz-session-001"},
		{"empty input", "   ", ""},
		{"symbols only", "!!!", ""},
		{"no leading hyphen", "- quiet lake", "quiet-lake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.source))
		})
	}
}
