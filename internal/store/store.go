// Package store defines the contract of the remote table store that holds
// every trip, stop, activity, expense and catalog row.
package store

import (
	"context"
	"errors"
	"fmt"
)

type Table string

const (
	TableTrips          Table = "trips"
	TableTripStops      Table = "trip_stops"
	TableTripActivities Table = "trip_activities"
	TableExpenses       Table = "expenses"
	TableCities         Table = "cities"
	TableActivities     Table = "activities"
	TableProfiles       Table = "profiles"
)

// Op is a filter comparison.
type Op int

const (
	OpEq Op = iota
	// OpILike matches a case-insensitive LIKE pattern ("%paris%").
	OpILike
	// OpIn matches any element of a slice value.
	OpIn
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func ILike(column, pattern string) Filter {
	return Filter{Column: column, Op: OpILike, Value: pattern}
}

func In[T any](column string, values []T) Filter {
	return Filter{Column: column, Op: OpIn, Value: values}
}

type Order struct {
	Column     string
	Desc       bool
	NullsFirst bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

type Query struct {
	Table Table
	// Where filters are ANDed together.
	Where []Filter
	// AnyOf filters are ORed together, then ANDed with Where.
	AnyOf []Filter
	Order []Order
	Limit int
}

// Values maps column names to the values written by Insert and Update.
type Values map[string]any

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store
type Client interface {
	// Select scans every matching row into dest, a pointer to a slice.
	Select(ctx context.Context, q Query, dest any) error
	// Insert writes one row and scans the stored row into dest.
	Insert(ctx context.Context, table Table, values Values, dest any) error
	// Update changes the row with the given id and scans the stored row into dest.
	// It fails with ErrNoRows when no row has that id.
	Update(ctx context.Context, table Table, id string, values Values, dest any) error
	// Delete removes the row with the given id. If dest is not nil and a row
	// was removed, the removed row is scanned into it.
	Delete(ctx context.Context, table Table, id string, dest any) error
}

var ErrNoRows = errors.New("no rows")

// Error is the failure of a single remote call.
type Error struct {
	Op    string
	Table Table
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRemote reports whether err came from a remote store call.
func IsRemote(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
