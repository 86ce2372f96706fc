package trip

import (
	"errors"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

// Cache entities published by the repositories. The scope of each key is
// noted next to it.
const (
	EntityTrips          = "trips"           // owner id
	EntityTrip           = "trip"            // trip id + "/" + caller id
	EntityStops          = "stops"           // trip id
	EntityActivities     = "activities"      // stop id
	EntityTripActivities = "trip-activities" // trip id
	EntityExpenses       = "expenses"        // trip id
)

type Option func(*base)

// WithClock replaces time.Now for created_at/updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

type base struct {
	client store.Client
	cache  *cache.Cache
	now    func() time.Time
}

func newBase(client store.Client, c *cache.Cache, opts []Option) base {
	b := base{client: client, cache: c, now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}

	return b
}

func (b base) stamp() time.Time {
	return b.now().UTC()
}

func (b base) publish(entity, scope string) {
	b.cache.Publish(cache.Key{Entity: entity, Scope: scope})
}

// Repositories bundles the four entity repositories over one client and cache.
type Repositories struct {
	Trips      *TripRepository
	Stops      *StopRepository
	Activities *ActivityRepository
	Expenses   *ExpenseRepository
}

func NewRepositories(client store.Client, c *cache.Cache, opts ...Option) *Repositories {
	return &Repositories{
		Trips:      NewTripRepository(client, c, opts...),
		Stops:      NewStopRepository(client, c, opts...),
		Activities: NewActivityRepository(client, c, opts...),
		Expenses:   NewExpenseRepository(client, c, opts...),
	}
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNoRows) {
		return ErrNotFound
	}

	return err
}

// first returns the single row of a by-id select.
func first[T any](rows []T) (*T, error) {
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	return &rows[0], nil
}

func byID(table store.Table, id string) store.Query {
	return store.Query{
		Table: table,
		Where: []store.Filter{store.Eq("id", id)},
		Limit: 1,
	}
}

// setText writes s into column when s is set; an empty string clears it.
func setText(v store.Values, column string, s *string) {
	if s == nil {
		return
	}

	if *s == "" {
		v[column] = nil
		return
	}

	v[column] = *s
}

// setDate writes d into column when d is set; a zero Date clears it.
func setDate(v store.Values, column string, d *Date) {
	if d == nil {
		return
	}

	if d.IsZero() {
		v[column] = nil
		return
	}

	v[column] = *d
}

func optText(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}

	return *s
}

func optDate(d *Date) any {
	if d == nil || d.IsZero() {
		return nil
	}

	return *d
}
