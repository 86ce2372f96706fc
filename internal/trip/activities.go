package trip

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

type ActivityRepository struct {
	base
}

func NewActivityRepository(client store.Client, c *cache.Cache, opts ...Option) *ActivityRepository {
	return &ActivityRepository{base: newBase(client, c, opts)}
}

type CreateActivityParams struct {
	TripStopID    string
	ActivityID    *string
	Name          string
	Category      *string
	ScheduledDate *Date
	ScheduledTime *string
	DurationHours decimal.NullDecimal
	Cost          decimal.Decimal
	Notes         *string
	OrderIndex    int
}

type UpdateActivityParams struct {
	Name          *string
	Category      *string
	ScheduledDate *Date
	ScheduledTime *string
	DurationHours *decimal.NullDecimal
	Cost          *decimal.Decimal
	Notes         *string
	IsCompleted   *bool
	OrderIndex    *int
}

// activityOrder puts dated activities first, earliest day first.
var activityOrder = []store.Order{
	store.Asc("scheduled_date"),
	store.Asc("order_index"),
	store.Asc("created_at"),
}

// List returns the activities of one stop.
func (r *ActivityRepository) List(ctx context.Context, stopID string) ([]Activity, error) {
	activities := []Activity{}

	err := r.client.Select(ctx, store.Query{
		Table: store.TableTripActivities,
		Where: []store.Filter{store.Eq("trip_stop_id", stopID)},
		Order: activityOrder,
	}, &activities)
	if err != nil {
		return nil, err
	}

	return activities, nil
}

// ListForTrip returns the activities of every stop of a trip. A trip without
// stops costs a single call.
func (r *ActivityRepository) ListForTrip(ctx context.Context, tripID string) ([]Activity, error) {
	var stops []Stop

	err := r.client.Select(ctx, store.Query{
		Table: store.TableTripStops,
		Where: []store.Filter{store.Eq("trip_id", tripID)},
	}, &stops)
	if err != nil {
		return nil, err
	}

	activities := []Activity{}
	if len(stops) == 0 {
		return activities, nil
	}

	ids := make([]string, len(stops))
	for i, s := range stops {
		ids[i] = s.ID
	}

	err = r.client.Select(ctx, store.Query{
		Table: store.TableTripActivities,
		Where: []store.Filter{store.In("trip_stop_id", ids)},
		Order: activityOrder,
	}, &activities)
	if err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *ActivityRepository) Get(ctx context.Context, id string) (*Activity, error) {
	var activities []Activity
	if err := r.client.Select(ctx, byID(store.TableTripActivities, id), &activities); err != nil {
		return nil, err
	}

	return first(activities)
}

func (r *ActivityRepository) Create(ctx context.Context, p CreateActivityParams) (*Activity, error) {
	var a Activity

	err := r.client.Insert(ctx, store.TableTripActivities, store.Values{
		"trip_stop_id":   p.TripStopID,
		"activity_id":    optText(p.ActivityID),
		"name":           p.Name,
		"category":       optText(p.Category),
		"scheduled_date": optDate(p.ScheduledDate),
		"scheduled_time": optText(p.ScheduledTime),
		"duration_hours": p.DurationHours,
		"cost":           p.Cost,
		"notes":          optText(p.Notes),
		"is_completed":   false,
		"order_index":    p.OrderIndex,
		"created_at":     r.stamp(),
	}, &a)
	if err != nil {
		return nil, err
	}

	r.changed(a.TripStopID)

	return &a, nil
}

func (r *ActivityRepository) Update(ctx context.Context, id string, p UpdateActivityParams) (*Activity, error) {
	v := store.Values{}

	setText(v, "category", p.Category)
	setDate(v, "scheduled_date", p.ScheduledDate)
	setText(v, "scheduled_time", p.ScheduledTime)
	setText(v, "notes", p.Notes)

	if p.Name != nil {
		v["name"] = *p.Name
	}

	if p.DurationHours != nil {
		v["duration_hours"] = *p.DurationHours
	}

	if p.Cost != nil {
		v["cost"] = *p.Cost
	}

	if p.IsCompleted != nil {
		v["is_completed"] = *p.IsCompleted
	}

	if p.OrderIndex != nil {
		v["order_index"] = *p.OrderIndex
	}

	if len(v) == 0 {
		return r.Get(ctx, id)
	}

	var a Activity
	if err := r.client.Update(ctx, store.TableTripActivities, id, v, &a); err != nil {
		return nil, notFound(err)
	}

	r.changed(a.TripStopID)

	return &a, nil
}

func (r *ActivityRepository) SetCompleted(ctx context.Context, id string, done bool) (*Activity, error) {
	return r.Update(ctx, id, UpdateActivityParams{IsCompleted: &done})
}

// Delete removes an activity. Deleting a missing activity succeeds.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	var a Activity
	if err := r.client.Delete(ctx, store.TableTripActivities, id, &a); err != nil {
		return err
	}

	if a.ID != "" {
		r.changed(a.TripStopID)
	}

	return nil
}

func (r *ActivityRepository) ListQuery(stopID string) *cache.Query[[]Activity] {
	return cache.For(r.cache, cache.Key{Entity: EntityActivities, Scope: stopID}, func(ctx context.Context) ([]Activity, error) {
		return r.List(ctx, stopID)
	})
}

func (r *ActivityRepository) ListForTripQuery(tripID string) *cache.Query[[]Activity] {
	return cache.For(r.cache, cache.Key{Entity: EntityTripActivities, Scope: tripID}, func(ctx context.Context) ([]Activity, error) {
		return r.ListForTrip(ctx, tripID)
	})
}

// changed publishes the stop's list and every trip-wide list: activity rows
// do not carry their trip id.
func (r *ActivityRepository) changed(stopID string) {
	r.publish(EntityActivities, stopID)
	r.cache.PublishEntity(EntityTripActivities)
}
