package trip

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}

	slices.Sort(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + f[field]
	}

	return strings.Join(parts, "; ")
}

// TripDraft is the create-trip form before submission.
type TripDraft struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	StartDate   *Date           `json:"start_date"`
	EndDate     *Date           `json:"end_date"`
	TotalBudget decimal.Decimal `json:"total_budget" validate:"gte=0"`
}

var tripMessages = map[string]string{
	"name.required":     "Trip name is required",
	"name.max":          "Trip name is too long",
	"description.max":   "Description is too long",
	"end_date.gtefield": "End date cannot be before start date.",
	"total_budget.gte":  "Budget cannot be negative",
}

// ValidateTripDraft returns nil when the draft can be submitted.
func ValidateTripDraft(d TripDraft) FieldErrors {
	d.Name = strings.TrimSpace(d.Name)
	return check(d, tripMessages)
}

type ExpenseDraft struct {
	Category    string          `json:"category" validate:"required,oneof=transport accommodation food activities shopping other"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description" validate:"max=500"`
}

var expenseMessages = map[string]string{
	"category.required": "Category is required",
	"category.oneof":    "Unknown category",
	"amount.gt":         "Amount must be greater than zero",
	"description.max":   "Description is too long",
}

func ValidateExpenseDraft(d ExpenseDraft) FieldErrors {
	return check(d, expenseMessages)
}

type ActivityDraft struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Category string          `json:"category" validate:"omitempty,oneof=sightseeing food adventure culture nightlife shopping relaxation"`
	Cost     decimal.Decimal `json:"cost" validate:"gte=0"`
}

var activityMessages = map[string]string{
	"name.required":  "Activity name is required",
	"name.max":       "Activity name is too long",
	"category.oneof": "Unknown category",
	"cost.gte":       "Cost cannot be negative",
}

func ValidateActivityDraft(d ActivityDraft) FieldErrors {
	d.Name = strings.TrimSpace(d.Name)
	return check(d, activityMessages)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}

		f, _ := d.Float64()

		return f
	}, decimal.Decimal{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		d := sl.Current().Interface().(TripDraft)
		if d.StartDate == nil || d.EndDate == nil || d.StartDate.IsZero() || d.EndDate.IsZero() {
			return
		}

		if d.EndDate.Before(*d.StartDate) {
			sl.ReportError(d.EndDate, "end_date", "EndDate", "gtefield", "start_date")
		}
	}, TripDraft{})

	return v
}

func check(draft any, messages map[string]string) FieldErrors {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}

	out := make(FieldErrors, len(verrs))

	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}

		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}

		out[field] = msg
	}

	return out
}
