package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/database"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
	"github.com/MrJamesThe3rd/globetrotter/internal/store/sqlstore"
)

func seeded(t *testing.T) store.Client {
	t.Helper()

	db, err := database.New("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))

	client := sqlstore.New(db)

	cities := []store.Values{
		{"name": "Paris", "country": "France", "popularity": 95},
		{"name": "Lisbon", "country": "Portugal", "popularity": 80},
		{"name": "Porto", "country": "Portugal", "popularity": 60},
		{"name": "Kyoto", "country": "Japan", "popularity": 85},
		{"name": "Osaka", "country": "Japan", "popularity": 70},
		{"name": "Nice", "country": "France", "popularity": 40},
		{"name": "Sapporo", "country": "Japan", "popularity": 30},
	}
	for _, v := range cities {
		var c catalog.City
		require.NoError(t, client.Insert(ctx, store.TableCities, v, &c))
	}

	activities := []store.Values{
		{"name": "Louvre", "category": "culture", "average_cost": decimal.NewFromInt(22)},
		{"name": "Food market tour", "category": "food"},
		{"name": "Fado night", "category": "nightlife"},
		{"name": "Tea ceremony", "category": "culture", "average_duration_hours": decimal.RequireFromString("1.5")},
	}
	for _, v := range activities {
		var a catalog.Activity
		require.NoError(t, client.Insert(ctx, store.TableActivities, v, &a))
	}

	return client
}

func cityNames(cities []catalog.City) []string {
	out := make([]string, len(cities))
	for i, c := range cities {
		out[i] = c.Name
	}

	return out
}

func TestCities_Search(t *testing.T) {
	cities := catalog.NewCities(seeded(t), cache.New())
	ctx := context.Background()

	tests := []struct {
		name string
		q    string
		want []string
	}{
		{name: "Blank", q: "  ", want: []string{"Paris", "Kyoto", "Lisbon", "Osaka", "Porto", "Nice", "Sapporo"}},
		{name: "ByCountry", q: "japan", want: []string{"Kyoto", "Osaka", "Sapporo"}},
		{name: "ByName", q: "POR", want: []string{"Lisbon", "Porto", "Sapporo"}},
		{name: "NoMatch", q: "Lima", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cities.Search(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cityNames(got))
		})
	}
}

func TestCities_Popular(t *testing.T) {
	cities := catalog.NewCities(seeded(t), cache.New())
	ctx := context.Background()

	got, err := cities.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, catalog.DefaultPopularLimit)
	assert.Equal(t, "Paris", got[0].Name)

	got, err = cities.Popular(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Kyoto"}, cityNames(got))

	q := cities.PopularQuery(2)
	cached, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, cityNames(got), cityNames(cached))
	assert.True(t, q.Fresh())
}

func TestCities_Get(t *testing.T) {
	cities := catalog.NewCities(seeded(t), cache.New())
	ctx := context.Background()

	all, err := cities.Search(ctx, "Nice")
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := cities.Get(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "France", got.Country)

	_, err = cities.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = cities.Get(ctx, "nice")
	assert.True(t, store.IsRemote(err))
}

func TestActivities_List(t *testing.T) {
	activities := catalog.NewActivities(seeded(t), cache.New())
	ctx := context.Background()

	tests := []struct {
		name   string
		filter catalog.ActivityFilter
		want   []string
	}{
		{name: "All", want: []string{"Fado night", "Food market tour", "Louvre", "Tea ceremony"}},
		{name: "Category", filter: catalog.ActivityFilter{Category: "culture"}, want: []string{"Louvre", "Tea ceremony"}},
		{name: "Search", filter: catalog.ActivityFilter{Search: "TOUR"}, want: []string{"Food market tour"}},
		{name: "Both", filter: catalog.ActivityFilter{Category: "culture", Search: "tea"}, want: []string{"Tea ceremony"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := activities.List(ctx, tt.filter)
			require.NoError(t, err)

			names := make([]string, len(got))
			for i, a := range got {
				names[i] = a.Name
			}

			assert.Equal(t, tt.want, names)
		})
	}
}

func TestActivities_ListQueryCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := store.NewMockClient(ctrl)
	client.EXPECT().
		Select(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q store.Query, dest any) error {
			assert.Equal(t, store.TableActivities, q.Table)
			*dest.(*[]catalog.Activity) = []catalog.Activity{{Name: "Louvre"}}

			return nil
		}).
		Times(1)

	activities := catalog.NewActivities(client, cache.New())
	filter := catalog.ActivityFilter{Category: "culture"}

	for range 3 {
		got, err := activities.ListQuery(filter).Get(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
}

func TestCities_RemoteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := &store.Error{Op: "select", Table: store.TableCities, Err: errors.New("timeout")}

	client := store.NewMockClient(ctrl)
	client.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).Return(remote)

	_, err := catalog.NewCities(client, cache.New()).Search(context.Background(), "x")
	assert.ErrorIs(t, err, remote)
}
