// Package catalog reads the reference cities and activities users browse
// when planning. Catalog rows are not owned by anyone and never change from
// this application, so cached reads stay fresh for the life of the cache.
package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

const (
	entityCities     = "cities"
	entityPopular    = "popular-cities"
	entityActivities = "catalog-activities"
)

type City struct {
	ID         string          `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Country    string          `db:"country" json:"country"`
	Region     *string         `db:"region" json:"region"`
	ImageURL   *string         `db:"image_url" json:"image_url"`
	CostIndex  decimal.Decimal `db:"cost_index" json:"cost_index"`
	Popularity int             `db:"popularity" json:"popularity"`
	Latitude   *float64        `db:"latitude" json:"latitude"`
	Longitude  *float64        `db:"longitude" json:"longitude"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

type Activity struct {
	ID                   string              `db:"id" json:"id"`
	Name                 string              `db:"name" json:"name"`
	Category             string              `db:"category" json:"category"`
	Description          *string             `db:"description" json:"description"`
	AverageCost          decimal.NullDecimal `db:"average_cost" json:"average_cost"`
	AverageDurationHours decimal.NullDecimal `db:"average_duration_hours" json:"average_duration_hours"`
	ImageURL             *string             `db:"image_url" json:"image_url"`
	CreatedAt            time.Time           `db:"created_at" json:"created_at"`
}

// ActivityFilter narrows the activity list. Zero values match everything.
type ActivityFilter struct {
	Category string
	Search   string
}
