package trip_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/globetrotter/internal/auth"
	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/database"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
	"github.com/MrJamesThe3rd/globetrotter/internal/store/sqlstore"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

const owner = "7f1c2b1e-8a8b-4f5e-9a53-0c1d2e3f4a5b"

// tickingClock advances one second per call so created_at orders by insertion.
func tickingClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	)

	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		t = t.Add(time.Second)

		return t
	}
}

func openStore(t *testing.T) store.Client {
	t.Helper()

	db, err := database.New("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))

	return sqlstore.New(db)
}

func setup(t *testing.T) (*trip.Repositories, *cache.Cache, context.Context) {
	t.Helper()

	c := cache.New()
	repos := trip.NewRepositories(openStore(t), c, trip.WithClock(tickingClock()))

	return repos, c, auth.WithUser(context.Background(), owner)
}

func createTrip(t *testing.T, repos *trip.Repositories, ctx context.Context, name string) *trip.Trip {
	t.Helper()

	tr, err := repos.Trips.Create(ctx, trip.CreateTripParams{Name: name})
	require.NoError(t, err)

	return tr
}

func TestTrips_RoundTripAppliesDefaults(t *testing.T) {
	repos, _, ctx := setup(t)

	created, err := repos.Trips.Create(ctx, trip.CreateTripParams{Name: "Test"})
	require.NoError(t, err)

	got, err := repos.Trips.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Test", got.Name)
	assert.False(t, got.IsPublic)
	assert.True(t, decimal.Zero.Equal(got.TotalBudget))
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, owner, got.UserID)
}

func TestTrips_GetErrors(t *testing.T) {
	repos, _, ctx := setup(t)

	_, err := repos.Trips.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, trip.ErrNotFound)
	assert.False(t, store.IsRemote(err))

	_, err = repos.Trips.Get(ctx, "not-a-uuid")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, trip.ErrNotFound)
	assert.True(t, store.IsRemote(err))
}

func TestTrips_GetOtherOwner(t *testing.T) {
	repos, _, ctx := setup(t)

	private := createTrip(t, repos, ctx, "Private")
	public := createTrip(t, repos, ctx, "Public")

	isPublic := true
	_, err := repos.Trips.Update(ctx, public.ID, trip.UpdateTripParams{IsPublic: &isPublic})
	require.NoError(t, err)

	stranger := auth.WithUser(context.Background(), uuid.NewString())

	_, err = repos.Trips.Get(stranger, private.ID)
	assert.ErrorIs(t, err, trip.ErrNotFound)

	got, err := repos.Trips.Get(stranger, public.ID)
	require.NoError(t, err)
	assert.Equal(t, "Public", got.Name)
}

func TestTrips_GetQueryIsPerCaller(t *testing.T) {
	repos, _, ctx := setup(t)

	secret := createTrip(t, repos, ctx, "Secret")

	mine, err := repos.Trips.GetQuery(ctx, secret.ID).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Secret", mine.Name)

	stranger := auth.WithUser(context.Background(), uuid.NewString())

	_, err = repos.Trips.GetQuery(stranger, secret.ID).Get(stranger)
	assert.ErrorIs(t, err, trip.ErrNotFound)

	_, err = repos.Trips.GetQuery(context.Background(), secret.ID).Get(context.Background())
	assert.ErrorIs(t, err, trip.ErrNotFound)

	isPublic := true
	_, err = repos.Trips.Update(ctx, secret.ID, trip.UpdateTripParams{IsPublic: &isPublic})
	require.NoError(t, err)

	got, err := repos.Trips.GetQuery(stranger, secret.ID).Get(stranger)
	require.NoError(t, err, "updating the trip refreshes every caller's holder")
	assert.True(t, got.IsPublic)
}

func TestTrips_ListNewestFirst(t *testing.T) {
	repos, _, ctx := setup(t)

	createTrip(t, repos, ctx, "First")
	createTrip(t, repos, ctx, "Second")
	createTrip(t, repos, auth.WithUser(context.Background(), uuid.NewString()), "Someone else's")
	createTrip(t, repos, ctx, "Third")

	trips, err := repos.Trips.List(ctx)
	require.NoError(t, err)

	var names []string
	for _, tr := range trips {
		names = append(names, tr.Name)
	}

	assert.Equal(t, []string{"Third", "Second", "First"}, names)
}

func TestTrips_UpdateAndDelete(t *testing.T) {
	repos, _, ctx := setup(t)

	tr := createTrip(t, repos, ctx, "Draft")

	name := "Iceland"
	budget := decimal.RequireFromString("2500.75")
	start := trip.NewDate(2026, 7, 1)
	end := trip.NewDate(2026, 7, 10)

	updated, err := repos.Trips.Update(ctx, tr.ID, trip.UpdateTripParams{
		Name:        &name,
		TotalBudget: &budget,
		StartDate:   &start,
		EndDate:     &end,
	})
	require.NoError(t, err)

	assert.Equal(t, "Iceland", updated.Name)
	assert.True(t, budget.Equal(updated.TotalBudget))
	require.NotNil(t, updated.StartDate)
	assert.Equal(t, "2026-07-01", updated.StartDate.String())
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = repos.Trips.Update(ctx, uuid.NewString(), trip.UpdateTripParams{Name: &name})
	assert.ErrorIs(t, err, trip.ErrNotFound)

	stop, err := repos.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: "Reykjavik"})
	require.NoError(t, err)

	require.NoError(t, repos.Trips.Delete(ctx, tr.ID))
	require.NoError(t, repos.Trips.Delete(ctx, tr.ID), "deleting twice succeeds")

	_, err = repos.Trips.Get(ctx, tr.ID)
	assert.ErrorIs(t, err, trip.ErrNotFound)

	_, err = repos.Stops.Get(ctx, stop.ID)
	assert.ErrorIs(t, err, trip.ErrNotFound, "stops cascade with their trip")
}

func TestStops_ListByOrderIndex(t *testing.T) {
	repos, _, ctx := setup(t)
	tr := createTrip(t, repos, ctx, "Europe")

	for _, s := range []struct {
		city  string
		index int
	}{
		{"Rome", 2},
		{"Paris", 0},
		{"Vienna", 3},
		{"Berlin", 1},
		{"Prague", 1},
	} {
		_, err := repos.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: s.city, OrderIndex: s.index})
		require.NoError(t, err)
	}

	stops, err := repos.Stops.List(ctx, tr.ID)
	require.NoError(t, err)

	var cities []string
	for _, s := range stops {
		cities = append(cities, s.CityName)
	}

	assert.Equal(t, []string{"Paris", "Berlin", "Prague", "Rome", "Vienna"}, cities)
}

func TestStops_Update(t *testing.T) {
	repos, _, ctx := setup(t)
	tr := createTrip(t, repos, ctx, "Asia")

	stop, err := repos.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: "Tokyo"})
	require.NoError(t, err)

	country := "Japan"
	index := 4

	updated, err := repos.Stops.Update(ctx, stop.ID, trip.UpdateStopParams{Country: &country, OrderIndex: &index})
	require.NoError(t, err)
	require.NotNil(t, updated.Country)
	assert.Equal(t, "Japan", *updated.Country)
	assert.Equal(t, 4, updated.OrderIndex)

	same, err := repos.Stops.Update(ctx, stop.ID, trip.UpdateStopParams{})
	require.NoError(t, err)
	assert.Equal(t, updated.ID, same.ID)

	_, err = repos.Stops.Update(ctx, uuid.NewString(), trip.UpdateStopParams{Country: &country})
	assert.ErrorIs(t, err, trip.ErrNotFound)
}

func TestActivities_Ordering(t *testing.T) {
	repos, _, ctx := setup(t)
	tr := createTrip(t, repos, ctx, "Peru")

	stop, err := repos.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: "Cusco"})
	require.NoError(t, err)

	day1 := trip.NewDate(2026, 8, 1)
	day2 := trip.NewDate(2026, 8, 2)

	for _, p := range []trip.CreateActivityParams{
		{Name: "Unscheduled", OrderIndex: 0},
		{Name: "Day 2", ScheduledDate: &day2},
		{Name: "Day 1 late", ScheduledDate: &day1, OrderIndex: 2},
		{Name: "Day 1 early", ScheduledDate: &day1, OrderIndex: 1},
	} {
		p.TripStopID = stop.ID

		_, err := repos.Activities.Create(ctx, p)
		require.NoError(t, err)
	}

	activities, err := repos.Activities.List(ctx, stop.ID)
	require.NoError(t, err)

	var names []string
	for _, a := range activities {
		names = append(names, a.Name)
	}

	assert.Equal(t, []string{"Day 1 early", "Day 1 late", "Day 2", "Unscheduled"}, names)
}

func TestActivities_CreateInvalidatesStopAndTripLists(t *testing.T) {
	repos, _, ctx := setup(t)
	tr := createTrip(t, repos, ctx, "Chile")

	stop, err := repos.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: "Santiago"})
	require.NoError(t, err)

	byStop := repos.Activities.ListQuery(stop.ID)
	byTrip := repos.Activities.ListForTripQuery(tr.ID)

	before, err := byStop.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, before)

	beforeTrip, err := byTrip.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, beforeTrip)

	_, err = repos.Activities.Create(ctx, trip.CreateActivityParams{
		TripStopID: stop.ID,
		Name:       "Wine tour",
		Cost:       decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	after, err := byStop.Get(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Wine tour", after[0].Name)
	assert.True(t, decimal.NewFromInt(80).Equal(after[0].Cost))
	assert.False(t, after[0].IsCompleted)
	assert.False(t, after[0].DurationHours.Valid)

	afterTrip, err := byTrip.Get(ctx)
	require.NoError(t, err)
	require.Len(t, afterTrip, 1)
}

func TestActivities_SetCompletedAndDelete(t *testing.T) {
	repos, _, ctx := setup(t)
	tr := createTrip(t, repos, ctx, "Kenya")

	stop, err := repos.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: "Nairobi"})
	require.NoError(t, err)

	a, err := repos.Activities.Create(ctx, trip.CreateActivityParams{
		TripStopID:    stop.ID,
		Name:          "Safari",
		DurationHours: decimal.NewNullDecimal(decimal.RequireFromString("6.5")),
	})
	require.NoError(t, err)
	assert.True(t, a.DurationHours.Valid)

	done, err := repos.Activities.SetCompleted(ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	require.NoError(t, repos.Activities.Delete(ctx, a.ID))

	_, err = repos.Activities.Get(ctx, a.ID)
	assert.ErrorIs(t, err, trip.ErrNotFound)
}

func TestStops_DeleteInvalidatesTripActivities(t *testing.T) {
	repos, _, ctx := setup(t)
	tr := createTrip(t, repos, ctx, "Canada")

	stop, err := repos.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: "Toronto"})
	require.NoError(t, err)

	_, err = repos.Activities.Create(ctx, trip.CreateActivityParams{TripStopID: stop.ID, Name: "CN Tower"})
	require.NoError(t, err)

	byTrip := repos.Activities.ListForTripQuery(tr.ID)

	got, err := byTrip.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, repos.Stops.Delete(ctx, stop.ID))
	assert.False(t, byTrip.Fresh())

	got, err = byTrip.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpenses_ListLatestFirst(t *testing.T) {
	repos, _, ctx := setup(t)
	tr := createTrip(t, repos, ctx, "Mexico")

	d1 := trip.NewDate(2026, 2, 1)
	d2 := trip.NewDate(2026, 2, 3)

	for _, p := range []trip.CreateExpenseParams{
		{Description: new("undated"), Amount: decimal.NewFromInt(1)},
		{Description: new("first day"), ExpenseDate: &d1, Amount: decimal.NewFromInt(2), Category: trip.CategoryFood},
		{Description: new("third day"), ExpenseDate: &d2, Amount: decimal.RequireFromString("20.50"), Currency: "mxn"},
	} {
		p.TripID = tr.ID

		_, err := repos.Expenses.Create(ctx, p)
		require.NoError(t, err)
	}

	expenses, err := repos.Expenses.List(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 3)

	assert.Equal(t, "third day", *expenses[0].Description)
	assert.Equal(t, "MXN", expenses[0].Currency)
	assert.True(t, decimal.RequireFromString("20.5").Equal(expenses[0].Amount))
	assert.Equal(t, "first day", *expenses[1].Description)
	assert.Equal(t, trip.CategoryFood, expenses[1].Category)
	assert.Equal(t, "undated", *expenses[2].Description)
	assert.Equal(t, "USD", expenses[2].Currency)
	assert.Equal(t, trip.CategoryOther, expenses[2].Category)
}

func TestLoadOverview(t *testing.T) {
	repos, _, ctx := setup(t)
	tr := createTrip(t, repos, ctx, "Norway")

	stop, err := repos.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: "Bergen"})
	require.NoError(t, err)

	_, err = repos.Activities.Create(ctx, trip.CreateActivityParams{TripStopID: stop.ID, Name: "Fjord cruise"})
	require.NoError(t, err)

	_, err = repos.Expenses.Create(ctx, trip.CreateExpenseParams{TripID: tr.ID, Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)

	o := trip.LoadOverview(ctx, repos, tr.ID)
	require.NoError(t, o.Err())

	assert.Equal(t, "Norway", o.Trip.Name)
	assert.Len(t, o.Stops, 1)
	assert.Len(t, o.Activities, 1)
	assert.Len(t, o.Expenses, 1)

	missing := trip.LoadOverview(ctx, repos, uuid.NewString())
	assert.ErrorIs(t, missing.TripErr, trip.ErrNotFound)
	assert.NoError(t, missing.StopsErr, "sections fail independently")
	assert.Empty(t, missing.Stops)
}

func TestCachedOverview(t *testing.T) {
	client := openStore(t)
	ctx := auth.WithUser(context.Background(), owner)

	repos := trip.NewRepositories(client, cache.New(), trip.WithClock(tickingClock()))
	// A second process writing to the same store through its own cache.
	other := trip.NewRepositories(client, cache.New(), trip.WithClock(tickingClock()))

	tr := createTrip(t, repos, ctx, "Peru")

	o := trip.CachedOverview(ctx, repos, tr.ID, false)
	require.NoError(t, o.Err())
	assert.Empty(t, o.Expenses)

	_, err := repos.Expenses.Create(ctx, trip.CreateExpenseParams{TripID: tr.ID, Amount: decimal.NewFromInt(12)})
	require.NoError(t, err)

	o = trip.CachedOverview(ctx, repos, tr.ID, false)
	require.NoError(t, o.Err())
	assert.Len(t, o.Expenses, 1, "writes through the same cache are visible at once")

	_, err = other.Stops.Create(ctx, trip.CreateStopParams{TripID: tr.ID, CityName: "Cusco"})
	require.NoError(t, err)

	o = trip.CachedOverview(ctx, repos, tr.ID, false)
	assert.Empty(t, o.Stops, "unpublished writes wait for a refresh")

	o = trip.CachedOverview(ctx, repos, tr.ID, true)
	require.NoError(t, o.Err())
	require.Len(t, o.Stops, 1)
	assert.Equal(t, "Cusco", o.Stops[0].CityName)
}
