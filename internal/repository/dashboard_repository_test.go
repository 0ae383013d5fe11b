package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthBounds(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)
	cases := []struct {
		now        time.Time
		start, end time.Time
	}{
		{
			now:   time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
			start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			now:   time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			start: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			now:   time.Date(2024, 2, 29, 8, 0, 0, 0, lima),
			start: time.Date(2024, 2, 1, 0, 0, 0, 0, lima),
			end:   time.Date(2024, 3, 1, 0, 0, 0, 0, lima),
		},
	}
	for _, tc := range cases {
		start, end := MonthBounds(tc.now)
		assert.True(t, tc.start.Equal(start), "start for %s: %s", tc.now, start)
		assert.True(t, tc.end.Equal(end), "end for %s: %s", tc.now, end)
	}
}
