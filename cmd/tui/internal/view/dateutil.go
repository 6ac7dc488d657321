package view

import (
	"time"

	"github.com/MrJamesThe3rd/stash/internal/export"
)

type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
)

var timeframes = []Timeframe{TimeframeThisMonth, TimeframeLastMonth, TimeframeThisWeek, TimeframeLastWeek, TimeframeAll}

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeAll:
		return "All Time"
	}

	return "Unknown"
}

// TimeframeToDateRange returns the first and last day of tf relative to now. Weeks start on Monday.
func TimeframeToDateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	var start, end time.Time

	offset := int(now.Weekday())
	if offset == 0 {
		offset = 7
	}

	switch tf {
	case TimeframeThisWeek:
		start = now.AddDate(0, 0, -offset+1)
		end = now
	case TimeframeLastWeek:
		end = now.AddDate(0, 0, -offset)
		start = end.AddDate(0, 0, -6)
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case TimeframeLastMonth:
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, -1)
	}

	return start, end
}

func NormalizeDateRange(start time.Time, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
}

// FilterFor converts tf into an export filter. TimeframeAll leaves both bounds open.
func FilterFor(tf Timeframe, now time.Time) export.Filter {
	if tf == TimeframeAll {
		return export.Filter{}
	}

	start, end := NormalizeDateRange(TimeframeToDateRange(tf, now))

	return export.Filter{StartDate: &start, EndDate: &end}
}
