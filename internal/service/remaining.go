package service

import (
	"math"
	"time"

	"medtracker/internal/model"
)

// RemainingDays counts the calendar days left in a treatment of the given
// length starting on start, as seen on now's calendar date. A future start
// counts the days until it begins plus the whole duration. The result is
// never negative.
func RemainingDays(start model.Date, days int, now time.Time) int {
	today := model.DateOf(now)
	end := start.AddDays(days)

	diff := int(math.Ceil(end.Sub(today.Time).Hours() / 24))
	if diff < 0 {
		return 0
	}
	return diff
}
