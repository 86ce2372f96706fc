// Package trip holds the planner entities (trips, stops, activities and
// expenses) and the repositories that read and write them.
package trip

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// Trip is a user-owned travel plan.
type Trip struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	Name          string          `db:"name" json:"name"`
	Description   *string         `db:"description" json:"description"`
	CoverImageURL *string         `db:"cover_image_url" json:"cover_image_url"`
	StartDate     *Date           `db:"start_date" json:"start_date"`
	EndDate       *Date           `db:"end_date" json:"end_date"`
	IsPublic      bool            `db:"is_public" json:"is_public"`
	ShareCode     *string         `db:"share_code" json:"share_code"`
	TotalBudget   decimal.Decimal `db:"total_budget" json:"total_budget"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Stop is one city visit within a trip. Stops are displayed by OrderIndex.
type Stop struct {
	ID         string    `db:"id" json:"id"`
	TripID     string    `db:"trip_id" json:"trip_id"`
	CityID     *string   `db:"city_id" json:"city_id"`
	CityName   string    `db:"city_name" json:"city_name"`
	Country    *string   `db:"country" json:"country"`
	StartDate  *Date     `db:"start_date" json:"start_date"`
	EndDate    *Date     `db:"end_date" json:"end_date"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	Notes      *string   `db:"notes" json:"notes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Activity is a thing to do at a stop.
type Activity struct {
	ID            string              `db:"id" json:"id"`
	TripStopID    string              `db:"trip_stop_id" json:"trip_stop_id"`
	ActivityID    *string             `db:"activity_id" json:"activity_id"`
	Name          string              `db:"name" json:"name"`
	Category      *string             `db:"category" json:"category"`
	ScheduledDate *Date               `db:"scheduled_date" json:"scheduled_date"`
	ScheduledTime *string             `db:"scheduled_time" json:"scheduled_time"`
	DurationHours decimal.NullDecimal `db:"duration_hours" json:"duration_hours"`
	Cost          decimal.Decimal     `db:"cost" json:"cost"`
	Notes         *string             `db:"notes" json:"notes"`
	IsCompleted   bool                `db:"is_completed" json:"is_completed"`
	OrderIndex    int                 `db:"order_index" json:"order_index"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
}

type ExpenseCategory string

const (
	CategoryTransport     ExpenseCategory = "transport"
	CategoryAccommodation ExpenseCategory = "accommodation"
	CategoryFood          ExpenseCategory = "food"
	CategoryActivities    ExpenseCategory = "activities"
	CategoryShopping      ExpenseCategory = "shopping"
	CategoryOther         ExpenseCategory = "other"
)

// ExpenseCategories lists the known categories in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryTransport,
	CategoryAccommodation,
	CategoryFood,
	CategoryActivities,
	CategoryShopping,
	CategoryOther,
}

func (c ExpenseCategory) Known() bool {
	for _, k := range ExpenseCategories {
		if c == k {
			return true
		}
	}

	return false
}

// ActivityCategories are the categories offered when adding an activity.
var ActivityCategories = []string{
	"sightseeing",
	"food",
	"adventure",
	"culture",
	"nightlife",
	"shopping",
	"relaxation",
}

// Expense is a cost logged against a trip, optionally tagged to a stop.
type Expense struct {
	ID          string          `db:"id" json:"id"`
	TripID      string          `db:"trip_id" json:"trip_id"`
	TripStopID  *string         `db:"trip_stop_id" json:"trip_stop_id"`
	Category    ExpenseCategory `db:"category" json:"category"`
	Description *string         `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    string          `db:"currency" json:"currency"`
	ExpenseDate *Date           `db:"expense_date" json:"expense_date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

const (
	DefaultTripName = "Untitled Trip"
	DefaultCurrency = "USD"
)
