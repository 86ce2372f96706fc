package trip

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/auth"
	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

type TripRepository struct {
	base
}

func NewTripRepository(client store.Client, c *cache.Cache, opts ...Option) *TripRepository {
	return &TripRepository{base: newBase(client, c, opts)}
}

type CreateTripParams struct {
	Name          string
	Description   *string
	CoverImageURL *string
	StartDate     *Date
	EndDate       *Date
	IsPublic      bool
	TotalBudget   decimal.Decimal
}

// UpdateTripParams changes the non-nil fields. An empty string or zero Date
// clears an optional column.
type UpdateTripParams struct {
	Name          *string
	Description   *string
	CoverImageURL *string
	StartDate     *Date
	EndDate       *Date
	IsPublic      *bool
	ShareCode     *string
	TotalBudget   *decimal.Decimal
}

// List returns the caller's trips, newest first.
func (r *TripRepository) List(ctx context.Context) ([]Trip, error) {
	owner, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	return r.list(ctx, owner)
}

func (r *TripRepository) list(ctx context.Context, owner string) ([]Trip, error) {
	trips := []Trip{}

	err := r.client.Select(ctx, store.Query{
		Table: store.TableTrips,
		Where: []store.Filter{store.Eq("user_id", owner)},
		Order: []store.Order{store.Desc("created_at")},
	}, &trips)
	if err != nil {
		return nil, err
	}

	return trips, nil
}

// Get returns a trip the caller owns or one that is public.
func (r *TripRepository) Get(ctx context.Context, id string) (*Trip, error) {
	q := byID(store.TableTrips, id)
	q.AnyOf = []store.Filter{store.Eq("is_public", true)}

	if owner, ok := auth.UserID(ctx); ok {
		q.AnyOf = append(q.AnyOf, store.Eq("user_id", owner))
	}

	var trips []Trip
	if err := r.client.Select(ctx, q, &trips); err != nil {
		return nil, err
	}

	return first(trips)
}

func (r *TripRepository) Create(ctx context.Context, p CreateTripParams) (*Trip, error) {
	owner, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = DefaultTripName
	}

	now := r.stamp()

	var t Trip

	err = r.client.Insert(ctx, store.TableTrips, store.Values{
		"user_id":         owner,
		"name":            name,
		"description":     optText(p.Description),
		"cover_image_url": optText(p.CoverImageURL),
		"start_date":      optDate(p.StartDate),
		"end_date":        optDate(p.EndDate),
		"is_public":       p.IsPublic,
		"total_budget":    p.TotalBudget,
		"created_at":      now,
		"updated_at":      now,
	}, &t)
	if err != nil {
		return nil, err
	}

	r.publish(EntityTrips, t.UserID)
	r.cache.PublishEntity(EntityTrip)

	return &t, nil
}

func (r *TripRepository) Update(ctx context.Context, id string, p UpdateTripParams) (*Trip, error) {
	v := store.Values{"updated_at": r.stamp()}

	if p.Name != nil {
		v["name"] = *p.Name
	}

	setText(v, "description", p.Description)
	setText(v, "cover_image_url", p.CoverImageURL)
	setDate(v, "start_date", p.StartDate)
	setDate(v, "end_date", p.EndDate)
	setText(v, "share_code", p.ShareCode)

	if p.IsPublic != nil {
		v["is_public"] = *p.IsPublic
	}

	if p.TotalBudget != nil {
		v["total_budget"] = *p.TotalBudget
	}

	var t Trip
	if err := r.client.Update(ctx, store.TableTrips, id, v, &t); err != nil {
		return nil, notFound(err)
	}

	r.publish(EntityTrips, t.UserID)
	r.cache.PublishEntity(EntityTrip)

	return &t, nil
}

// Delete removes a trip. The store cascades to its stops, activities and
// expenses. Deleting a missing trip succeeds.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	var t Trip
	if err := r.client.Delete(ctx, store.TableTrips, id, &t); err != nil {
		return err
	}

	if t.ID == "" {
		return nil
	}

	r.publish(EntityTrips, t.UserID)
	r.cache.PublishEntity(EntityTrip)
	r.publish(EntityStops, t.ID)
	r.publish(EntityTripActivities, t.ID)
	r.publish(EntityExpenses, t.ID)

	return nil
}

// ListQuery is the cached form of List for the caller.
func (r *TripRepository) ListQuery(ctx context.Context) (*cache.Query[[]Trip], error) {
	owner, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	return cache.For(r.cache, cache.Key{Entity: EntityTrips, Scope: owner}, func(ctx context.Context) ([]Trip, error) {
		return r.list(ctx, owner)
	}), nil
}

// GetQuery is the cached form of Get. Each caller gets its own holder, so a
// private trip read by its owner is never served to anyone else.
func (r *TripRepository) GetQuery(ctx context.Context, id string) *cache.Query[*Trip] {
	viewer, _ := auth.UserID(ctx)

	return cache.For(r.cache, cache.Key{Entity: EntityTrip, Scope: id + "/" + viewer}, func(ctx context.Context) (*Trip, error) {
		return r.Get(auth.WithUser(ctx, viewer), id)
	})
}
