package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

// DefaultPopularLimit is how many cities the dashboard shows.
const DefaultPopularLimit = 6

type Cities struct {
	client store.Client
	cache  *cache.Cache
}

func NewCities(client store.Client, c *cache.Cache) *Cities {
	return &Cities{client: client, cache: c}
}

// Search returns cities whose name or country contains q, most popular
// first. A blank q lists every city.
func (r *Cities) Search(ctx context.Context, q string) ([]City, error) {
	query := store.Query{
		Table: store.TableCities,
		Order: []store.Order{store.Desc("popularity")},
	}

	if q = strings.TrimSpace(q); q != "" {
		pattern := "%" + q + "%"
		query.AnyOf = []store.Filter{
			store.ILike("name", pattern),
			store.ILike("country", pattern),
		}
	}

	cities := []City{}
	if err := r.client.Select(ctx, query, &cities); err != nil {
		return nil, err
	}

	return cities, nil
}

// Popular returns the limit most popular cities. A limit below one uses
// DefaultPopularLimit.
func (r *Cities) Popular(ctx context.Context, limit int) ([]City, error) {
	if limit < 1 {
		limit = DefaultPopularLimit
	}

	cities := []City{}

	err := r.client.Select(ctx, store.Query{
		Table: store.TableCities,
		Order: []store.Order{store.Desc("popularity")},
		Limit: limit,
	}, &cities)
	if err != nil {
		return nil, err
	}

	return cities, nil
}

func (r *Cities) Get(ctx context.Context, id string) (*City, error) {
	var cities []City

	err := r.client.Select(ctx, store.Query{
		Table: store.TableCities,
		Where: []store.Filter{store.Eq("id", id)},
		Limit: 1,
	}, &cities)
	if err != nil {
		return nil, err
	}

	if len(cities) == 0 {
		return nil, ErrNotFound
	}

	return &cities[0], nil
}

func (r *Cities) SearchQuery(q string) *cache.Query[[]City] {
	q = strings.TrimSpace(q)

	return cache.For(r.cache, cache.Key{Entity: entityCities, Scope: strings.ToLower(q)}, func(ctx context.Context) ([]City, error) {
		return r.Search(ctx, q)
	})
}

func (r *Cities) PopularQuery(limit int) *cache.Query[[]City] {
	if limit < 1 {
		limit = DefaultPopularLimit
	}

	return cache.For(r.cache, cache.Key{Entity: entityPopular, Scope: strconv.Itoa(limit)}, func(ctx context.Context) ([]City, error) {
		return r.Popular(ctx, limit)
	})
}
