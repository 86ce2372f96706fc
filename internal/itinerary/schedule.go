package itinerary

import (
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

const UnscheduledKey = "Unscheduled"

// DateGroup holds the activities of one day. Date is nil for the
// unscheduled group.
type DateGroup struct {
	Key        string
	Date       *trip.Date
	Activities []trip.Activity
}

// Title is the heading of the group, e.g. "Monday, March 2".
func (g DateGroup) Title() string {
	if g.Date == nil {
		return UnscheduledKey
	}

	return g.Date.Time().Format("Monday, January 2")
}

// GroupByDate partitions activities by scheduled day. Dated groups come in
// ascending order and the unscheduled group, if any, is always last.
// Activities keep their input order within a group.
func GroupByDate(activities []trip.Activity) []DateGroup {
	var (
		groups      []DateGroup
		unscheduled []trip.Activity
		index       = make(map[string]int)
	)

	for _, a := range activities {
		if a.ScheduledDate == nil || a.ScheduledDate.IsZero() {
			unscheduled = append(unscheduled, a)
			continue
		}

		key := a.ScheduledDate.String()

		i, ok := index[key]
		if !ok {
			day := *a.ScheduledDate
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Key: key, Date: &day})
		}

		groups[i].Activities = append(groups[i].Activities, a)
	}

	slices.SortFunc(groups, func(a, b DateGroup) int {
		return strings.Compare(a.Key, b.Key)
	})

	if len(unscheduled) > 0 {
		groups = append(groups, DateGroup{Key: UnscheduledKey, Activities: unscheduled})
	}

	return groups
}

// Upcoming returns up to limit trips that start after today, keeping their
// order. A limit of zero or less returns them all.
func Upcoming(trips []trip.Trip, now time.Time, limit int) []trip.Trip {
	today := trip.DateOf(now)

	var out []trip.Trip

	for _, t := range trips {
		if t.StartDate == nil || !t.StartDate.After(today) {
			continue
		}

		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out
}

// Search keeps the trips whose name or description contains q, ignoring case.
func Search(trips []trip.Trip, q string) []trip.Trip {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return trips
	}

	var out []trip.Trip

	for _, t := range trips {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			(t.Description != nil && strings.Contains(strings.ToLower(*t.Description), q)) {
			out = append(out, t)
		}
	}

	return out
}
