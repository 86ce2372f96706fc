// Package itinerary computes the derived views of a trip (status, budget,
// schedule) from rows that were already fetched.
package itinerary

import (
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

type StatusKind int

const (
	Planning StatusKind = iota
	UpcomingStatus
	Soon
	InProgress
	Completed
)

// SoonWindow is how many days ahead a trip counts as close.
const SoonWindow = 7

type StatusLabel struct {
	Kind StatusKind
	// DaysAway is set for Soon.
	DaysAway int
}

func (s StatusLabel) String() string {
	switch s.Kind {
	case Completed:
		return "Completed"
	case InProgress:
		return "In Progress"
	case Soon:
		return fmt.Sprintf("%dd away", s.DaysAway)
	case UpcomingStatus:
		return "Upcoming"
	default:
		return "Planning"
	}
}

// Status labels a trip from its dates. Days are compared in now's location.
// A trip without an end date never completes on its own.
func Status(start, end *trip.Date, now time.Time) StatusLabel {
	if start == nil || start.IsZero() {
		return StatusLabel{Kind: Planning}
	}

	today := trip.DateOf(now)

	if end != nil && !end.IsZero() && end.Before(today) {
		return StatusLabel{Kind: Completed}
	}

	if !start.After(today) {
		return StatusLabel{Kind: InProgress}
	}

	days := today.DaysUntil(*start)
	if days <= SoonWindow {
		return StatusLabel{Kind: Soon, DaysAway: days}
	}

	return StatusLabel{Kind: UpcomingStatus}
}

// DurationDays counts the days of a trip, both ends included. It reports
// false unless both dates are set.
func DurationDays(start, end *trip.Date) (int, bool) {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return 0, false
	}

	return start.DaysUntil(*end) + 1, true
}
