package itinerary

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

// CategoryTotal is one slice of the expense chart.
type CategoryTotal struct {
	Category trip.ExpenseCategory `json:"category"`
	Label    string               `json:"label"`
	Color    string               `json:"color"`
	Total    decimal.Decimal      `json:"total"`
}

type categoryStyle struct {
	label string
	color string
}

var categoryStyles = map[trip.ExpenseCategory]categoryStyle{
	trip.CategoryTransport:     {"Transport", "#0891b2"},
	trip.CategoryAccommodation: {"Accommodation", "#f97316"},
	trip.CategoryFood:          {"Food", "#22c55e"},
	trip.CategoryActivities:    {"Activities", "#8b5cf6"},
	trip.CategoryShopping:      {"Shopping", "#ec4899"},
	trip.CategoryOther:         {"Other", "#6b7280"},
}

// CategoryLabel is the display name of c, or c itself when unknown.
func CategoryLabel(c trip.ExpenseCategory) string {
	if s, ok := categoryStyles[c]; ok {
		return s.label
	}

	return string(c)
}

// CategoryColor is the chart colour of c. Unknown categories share Other's.
func CategoryColor(c trip.ExpenseCategory) string {
	if s, ok := categoryStyles[c]; ok {
		return s.color
	}

	return categoryStyles[trip.CategoryOther].color
}

func ExpenseTotal(expenses []trip.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}

	return total
}

func ActivityTotal(activities []trip.Activity) decimal.Decimal {
	total := decimal.Zero
	for _, a := range activities {
		total = total.Add(a.Cost)
	}

	return total
}

// StopActivityTotal sums the activity costs of one stop.
func StopActivityTotal(activities []trip.Activity, stopID string) decimal.Decimal {
	total := decimal.Zero

	for _, a := range activities {
		if a.TripStopID == stopID {
			total = total.Add(a.Cost)
		}
	}

	return total
}

// TotalCost is every expense plus every activity cost. Amounts are assumed
// to share one currency.
func TotalCost(expenses []trip.Expense, activities []trip.Activity) decimal.Decimal {
	return ExpenseTotal(expenses).Add(ActivityTotal(activities))
}

// Remaining is what is left of budget after cost. It goes negative when the
// trip is over budget.
func Remaining(budget, cost decimal.Decimal) decimal.Decimal {
	return budget.Sub(cost)
}

// Breakdown totals expenses per known category, in display order. Categories
// with nothing spent are left out.
func Breakdown(expenses []trip.Expense) []CategoryTotal {
	sums := make(map[trip.ExpenseCategory]decimal.Decimal, len(trip.ExpenseCategories))
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	out := []CategoryTotal{}

	for _, c := range trip.ExpenseCategories {
		total := sums[c]
		if !total.IsPositive() {
			continue
		}

		style := categoryStyles[c]
		out = append(out, CategoryTotal{
			Category: c,
			Label:    style.label,
			Color:    style.color,
			Total:    total,
		})
	}

	return out
}
