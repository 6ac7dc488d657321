package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframeToDateRange(t *testing.T) {
	// Wednesday.
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

	type testCase struct {
		name      string
		timeframe Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{
			name:      "ThisWeek",
			timeframe: TimeframeThisWeek,
			wantStart: time.Date(2026, 10, 12, 15, 30, 0, 0, time.UTC),
			wantEnd:   now,
		},
		{
			name:      "LastWeek",
			timeframe: TimeframeLastWeek,
			wantStart: time.Date(2026, 10, 5, 15, 30, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 10, 11, 15, 30, 0, 0, time.UTC),
		},
		{
			name:      "ThisMonth",
			timeframe: TimeframeThisMonth,
			wantStart: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   now,
		},
		{
			name:      "LastMonth",
			timeframe: TimeframeLastMonth,
			wantStart: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := TimeframeToDateRange(tt.timeframe, now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTimeframeToDateRange_Sunday(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	start, _ := TimeframeToDateRange(TimeframeThisWeek, sunday)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 12, start.Day())
}

func TestFilterFor(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

	all := FilterFor(TimeframeAll, now)
	assert.Nil(t, all.StartDate)
	assert.Nil(t, all.EndDate)

	month := FilterFor(TimeframeThisMonth, now)
	require.NotNil(t, month.StartDate)
	require.NotNil(t, month.EndDate)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *month.StartDate)
	assert.Equal(t, time.Date(2026, 10, 14, 23, 59, 59, 0, time.UTC), *month.EndDate)
}
