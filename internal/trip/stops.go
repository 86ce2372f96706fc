package trip

import (
	"context"

	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

type StopRepository struct {
	base
}

func NewStopRepository(client store.Client, c *cache.Cache, opts ...Option) *StopRepository {
	return &StopRepository{base: newBase(client, c, opts)}
}

// CreateStopParams describes a new stop. OrderIndex is usually the trip's
// current stop count.
type CreateStopParams struct {
	TripID     string
	CityID     *string
	CityName   string
	Country    *string
	StartDate  *Date
	EndDate    *Date
	OrderIndex int
	Notes      *string
}

type UpdateStopParams struct {
	CityID     *string
	CityName   *string
	Country    *string
	StartDate  *Date
	EndDate    *Date
	OrderIndex *int
	Notes      *string
}

// List returns the stops of a trip by order index. Equal indexes keep
// insertion order.
func (r *StopRepository) List(ctx context.Context, tripID string) ([]Stop, error) {
	stops := []Stop{}

	err := r.client.Select(ctx, store.Query{
		Table: store.TableTripStops,
		Where: []store.Filter{store.Eq("trip_id", tripID)},
		Order: []store.Order{store.Asc("order_index"), store.Asc("created_at")},
	}, &stops)
	if err != nil {
		return nil, err
	}

	return stops, nil
}

func (r *StopRepository) Get(ctx context.Context, id string) (*Stop, error) {
	var stops []Stop
	if err := r.client.Select(ctx, byID(store.TableTripStops, id), &stops); err != nil {
		return nil, err
	}

	return first(stops)
}

func (r *StopRepository) Create(ctx context.Context, p CreateStopParams) (*Stop, error) {
	var s Stop

	err := r.client.Insert(ctx, store.TableTripStops, store.Values{
		"trip_id":     p.TripID,
		"city_id":     optText(p.CityID),
		"city_name":   p.CityName,
		"country":     optText(p.Country),
		"start_date":  optDate(p.StartDate),
		"end_date":    optDate(p.EndDate),
		"order_index": p.OrderIndex,
		"notes":       optText(p.Notes),
		"created_at":  r.stamp(),
	}, &s)
	if err != nil {
		return nil, err
	}

	r.changed(s.TripID)

	return &s, nil
}

func (r *StopRepository) Update(ctx context.Context, id string, p UpdateStopParams) (*Stop, error) {
	v := store.Values{}

	setText(v, "city_id", p.CityID)
	setText(v, "country", p.Country)
	setDate(v, "start_date", p.StartDate)
	setDate(v, "end_date", p.EndDate)
	setText(v, "notes", p.Notes)

	if p.CityName != nil {
		v["city_name"] = *p.CityName
	}

	if p.OrderIndex != nil {
		v["order_index"] = *p.OrderIndex
	}

	if len(v) == 0 {
		return r.Get(ctx, id)
	}

	var s Stop
	if err := r.client.Update(ctx, store.TableTripStops, id, v, &s); err != nil {
		return nil, notFound(err)
	}

	r.changed(s.TripID)

	return &s, nil
}

// Delete removes a stop and, through the store, its activities. Deleting a
// missing stop succeeds.
func (r *StopRepository) Delete(ctx context.Context, id string) error {
	var s Stop
	if err := r.client.Delete(ctx, store.TableTripStops, id, &s); err != nil {
		return err
	}

	if s.ID == "" {
		return nil
	}

	r.changed(s.TripID)
	r.publish(EntityActivities, s.ID)
	r.publish(EntityExpenses, s.TripID)

	return nil
}

func (r *StopRepository) ListQuery(tripID string) *cache.Query[[]Stop] {
	return cache.For(r.cache, cache.Key{Entity: EntityStops, Scope: tripID}, func(ctx context.Context) ([]Stop, error) {
		return r.List(ctx, tripID)
	})
}

// changed publishes the trip's stop list and the activity set derived from it.
func (r *StopRepository) changed(tripID string) {
	r.publish(EntityStops, tripID)
	r.publish(EntityTripActivities, tripID)
}
