package planner

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/itinerary"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

type tripResponse struct {
	trip.Trip
	Status       string `json:"status"`
	DurationDays *int   `json:"duration_days"`
}

func toTripResponse(t trip.Trip, now time.Time) tripResponse {
	resp := tripResponse{
		Trip:   t,
		Status: itinerary.Status(t.StartDate, t.EndDate, now).String(),
	}

	if days, ok := itinerary.DurationDays(t.StartDate, t.EndDate); ok {
		resp.DurationDays = &days
	}

	return resp
}

func toTripResponseList(trips []trip.Trip, now time.Time) []tripResponse {
	resp := make([]tripResponse, len(trips))
	for i, t := range trips {
		resp[i] = toTripResponse(t, now)
	}

	return resp
}

type dayResponse struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	Date       *trip.Date      `json:"date"`
	Activities []trip.Activity `json:"activities"`
}

type stopResponse struct {
	trip.Stop
	ActivityCost decimal.Decimal `json:"activity_cost"`
}

type budgetResponse struct {
	Total        decimal.Decimal           `json:"total"`
	ExpenseCost  decimal.Decimal           `json:"expense_cost"`
	ActivityCost decimal.Decimal           `json:"activity_cost"`
	TotalCost    decimal.Decimal           `json:"total_cost"`
	Remaining    decimal.Decimal           `json:"remaining"`
	Breakdown    []itinerary.CategoryTotal `json:"breakdown"`
}

type overviewResponse struct {
	Trip     tripResponse   `json:"trip"`
	Stops    []stopResponse `json:"stops"`
	Schedule []dayResponse  `json:"schedule"`
	Expenses []trip.Expense `json:"expenses"`
	Budget   budgetResponse `json:"budget"`
}

func toOverviewResponse(o *trip.Overview, now time.Time) overviewResponse {
	stops := make([]stopResponse, len(o.Stops))
	for i, s := range o.Stops {
		stops[i] = stopResponse{
			Stop:         s,
			ActivityCost: itinerary.StopActivityTotal(o.Activities, s.ID),
		}
	}

	groups := itinerary.GroupByDate(o.Activities)

	schedule := make([]dayResponse, len(groups))
	for i, g := range groups {
		schedule[i] = dayResponse{
			Key:        g.Key,
			Title:      g.Title(),
			Date:       g.Date,
			Activities: g.Activities,
		}
	}

	cost := itinerary.TotalCost(o.Expenses, o.Activities)

	breakdown := itinerary.Breakdown(o.Expenses)
	if breakdown == nil {
		breakdown = []itinerary.CategoryTotal{}
	}

	return overviewResponse{
		Trip:     toTripResponse(*o.Trip, now),
		Stops:    stops,
		Schedule: schedule,
		Expenses: o.Expenses,
		Budget: budgetResponse{
			Total:        o.Trip.TotalBudget,
			ExpenseCost:  itinerary.ExpenseTotal(o.Expenses),
			ActivityCost: itinerary.ActivityTotal(o.Activities),
			TotalCost:    cost,
			Remaining:    itinerary.Remaining(o.Trip.TotalBudget, cost),
			Breakdown:    breakdown,
		},
	}
}
