package pgdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Local-midnight mark dates must bind as their own calendar day no matter
// the zone; a timestamptz round trip through a UTC session would shift
// east-of-UTC midnights to the previous day.
func TestDateArg(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc midnight", time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), "2026-03-11"},
		{"east of UTC midnight", time.Date(2026, time.March, 11, 0, 0, 0, 0, time.FixedZone("UTC+10", 10*3600)), "2026-03-11"},
		{"west of UTC midnight", time.Date(2026, time.March, 11, 0, 0, 0, 0, time.FixedZone("UTC-7", -7*3600)), "2026-03-11"},
		{"mid-day is still the same day", time.Date(2026, time.March, 11, 23, 45, 0, 0, time.FixedZone("UTC+10", 10*3600)), "2026-03-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dateArg(tt.in))
		})
	}
}
