package trip

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Overview is everything the trip detail page shows. Each section carries its
// own error so one failed read does not hide the others.
type Overview struct {
	Trip    *Trip
	TripErr error

	Stops    []Stop
	StopsErr error

	Activities    []Activity
	ActivitiesErr error

	Expenses    []Expense
	ExpensesErr error
}

// OverviewSources are the four reads an Overview is assembled from.
type OverviewSources struct {
	Trip       func(ctx context.Context) (*Trip, error)
	Stops      func(ctx context.Context) ([]Stop, error)
	Activities func(ctx context.Context) ([]Activity, error)
	Expenses   func(ctx context.Context) ([]Expense, error)
}

// LoadOverview reads the four sections of a trip concurrently from the store.
func LoadOverview(ctx context.Context, repos *Repositories, tripID string) *Overview {
	return OverviewSources{
		Trip:       func(ctx context.Context) (*Trip, error) { return repos.Trips.Get(ctx, tripID) },
		Stops:      func(ctx context.Context) ([]Stop, error) { return repos.Stops.List(ctx, tripID) },
		Activities: func(ctx context.Context) ([]Activity, error) { return repos.Activities.ListForTrip(ctx, tripID) },
		Expenses:   func(ctx context.Context) ([]Expense, error) { return repos.Expenses.List(ctx, tripID) },
	}.Load(ctx)
}

// CachedOverview is LoadOverview through the cached holders of the caller.
// With refresh set, every section is invalidated first.
func CachedOverview(ctx context.Context, repos *Repositories, tripID string, refresh bool) *Overview {
	var (
		tripQ       = repos.Trips.GetQuery(ctx, tripID)
		stopsQ      = repos.Stops.ListQuery(tripID)
		activitiesQ = repos.Activities.ListForTripQuery(tripID)
		expensesQ   = repos.Expenses.ListQuery(tripID)
	)

	if refresh {
		tripQ.Invalidate()
		stopsQ.Invalidate()
		activitiesQ.Invalidate()
		expensesQ.Invalidate()
	}

	return OverviewSources{
		Trip:       tripQ.Get,
		Stops:      stopsQ.Get,
		Activities: activitiesQ.Get,
		Expenses:   expensesQ.Get,
	}.Load(ctx)
}

// Load runs the four reads concurrently. Sections fail independently: every
// goroutine stores its error on its own section and returns nil, so one
// failure never cancels the other reads.
func (s OverviewSources) Load(ctx context.Context) *Overview {
	var (
		o Overview
		g errgroup.Group
	)

	g.Go(func() error {
		o.Trip, o.TripErr = s.Trip(ctx)
		return nil
	})

	g.Go(func() error {
		o.Stops, o.StopsErr = s.Stops(ctx)
		return nil
	})

	g.Go(func() error {
		o.Activities, o.ActivitiesErr = s.Activities(ctx)
		return nil
	})

	g.Go(func() error {
		o.Expenses, o.ExpensesErr = s.Expenses(ctx)
		return nil
	})

	_ = g.Wait()

	return &o
}

// Err returns the first section error, trip first.
func (o *Overview) Err() error {
	for _, err := range []error{o.TripErr, o.StopsErr, o.ActivitiesErr, o.ExpensesErr} {
		if err != nil {
			return err
		}
	}

	return nil
}
