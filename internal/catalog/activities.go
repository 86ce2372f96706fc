package catalog

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

type Activities struct {
	client store.Client
	cache  *cache.Cache
}

func NewActivities(client store.Client, c *cache.Cache) *Activities {
	return &Activities{client: client, cache: c}
}

// List returns catalog activities by name.
func (r *Activities) List(ctx context.Context, f ActivityFilter) ([]Activity, error) {
	q := store.Query{
		Table: store.TableActivities,
		Order: []store.Order{store.Asc("name")},
	}

	if f.Category != "" {
		q.Where = append(q.Where, store.Eq("category", f.Category))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		q.Where = append(q.Where, store.ILike("name", "%"+s+"%"))
	}

	activities := []Activity{}
	if err := r.client.Select(ctx, q, &activities); err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *Activities) ListQuery(f ActivityFilter) *cache.Query[[]Activity] {
	scope := f.Category + "|" + strings.ToLower(strings.TrimSpace(f.Search))

	return cache.For(r.cache, cache.Key{Entity: entityActivities, Scope: scope}, func(ctx context.Context) ([]Activity, error) {
		return r.List(ctx, f)
	})
}
