package trip_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

func TestValidateTripDraft(t *testing.T) {
	start := trip.NewDate(2026, 5, 10)
	before := trip.NewDate(2026, 5, 9)
	same := trip.NewDate(2026, 5, 10)

	tests := []struct {
		name  string
		draft trip.TripDraft
		want  trip.FieldErrors
	}{
		{
			name:  "Valid",
			draft: trip.TripDraft{Name: "Weekend in Porto", StartDate: &start, EndDate: &same},
		},
		{
			name:  "OnlyStartDate",
			draft: trip.TripDraft{Name: "Porto", StartDate: &start},
		},
		{
			name:  "MissingName",
			draft: trip.TripDraft{Name: "   "},
			want:  trip.FieldErrors{"name": "Trip name is required"},
		},
		{
			name:  "LongName",
			draft: trip.TripDraft{Name: strings.Repeat("a", 101)},
			want:  trip.FieldErrors{"name": "Trip name is too long"},
		},
		{
			name:  "LongDescription",
			draft: trip.TripDraft{Name: "ok", Description: strings.Repeat("d", 501)},
			want:  trip.FieldErrors{"description": "Description is too long"},
		},
		{
			name:  "EndBeforeStart",
			draft: trip.TripDraft{Name: "ok", StartDate: &start, EndDate: &before},
			want:  trip.FieldErrors{"end_date": "End date cannot be before start date."},
		},
		{
			name:  "NegativeBudget",
			draft: trip.TripDraft{Name: "ok", TotalBudget: decimal.NewFromInt(-1)},
			want:  trip.FieldErrors{"total_budget": "Budget cannot be negative"},
		},
		{
			name:  "ZeroBudget",
			draft: trip.TripDraft{Name: "ok", TotalBudget: decimal.Zero},
		},
		{
			name:  "Several",
			draft: trip.TripDraft{Description: strings.Repeat("d", 501), StartDate: &start, EndDate: &before},
			want: trip.FieldErrors{
				"name":        "Trip name is required",
				"description": "Description is too long",
				"end_date":    "End date cannot be before start date.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trip.ValidateTripDraft(tt.draft)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateExpenseDraft(t *testing.T) {
	assert.Empty(t, trip.ValidateExpenseDraft(trip.ExpenseDraft{Category: "food", Amount: decimal.NewFromInt(3)}))

	got := trip.ValidateExpenseDraft(trip.ExpenseDraft{Category: "gifts", Amount: decimal.Zero})
	assert.Equal(t, trip.FieldErrors{
		"category": "Unknown category",
		"amount":   "Amount must be greater than zero",
	}, got)

	got = trip.ValidateExpenseDraft(trip.ExpenseDraft{Amount: decimal.RequireFromString("0.01")})
	assert.Equal(t, trip.FieldErrors{"category": "Category is required"}, got)
}

func TestValidateActivityDraft(t *testing.T) {
	assert.Empty(t, trip.ValidateActivityDraft(trip.ActivityDraft{Name: "Louvre", Category: "culture"}))
	assert.Empty(t, trip.ValidateActivityDraft(trip.ActivityDraft{Name: "Walk"}))

	got := trip.ValidateActivityDraft(trip.ActivityDraft{Name: " ", Category: "partying", Cost: decimal.NewFromInt(-1)})
	assert.Equal(t, trip.FieldErrors{
		"name":     "Activity name is required",
		"category": "Unknown category",
		"cost":     "Cost cannot be negative",
	}, got)
}

func TestFieldErrors_Error(t *testing.T) {
	err := trip.FieldErrors{"name": "Trip name is required", "end_date": "End date cannot be before start date."}
	assert.Equal(t, "end_date: End date cannot be before start date.; name: Trip name is required", err.Error())
}
