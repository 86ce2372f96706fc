// Package profile reads and saves the caller's profile row.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/MrJamesThe3rd/globetrotter/internal/auth"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

var ErrNotFound = errors.New("not found")

const DefaultLanguage = "en"

// Profile shares its id with the owning user.
type Profile struct {
	ID                 string    `db:"id" json:"id"`
	FullName           *string   `db:"full_name" json:"full_name"`
	AvatarURL          *string   `db:"avatar_url" json:"avatar_url"`
	Bio                *string   `db:"bio" json:"bio"`
	LanguagePreference string    `db:"language_preference" json:"language_preference"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type UpdateParams struct {
	FullName           *string
	AvatarURL          *string
	Bio                *string
	LanguagePreference *string
}

type Repository struct {
	client store.Client
	now    func() time.Time
}

func NewRepository(client store.Client) *Repository {
	return &Repository{client: client, now: time.Now}
}

func (r *Repository) Get(ctx context.Context) (*Profile, error) {
	id, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	var profiles []Profile

	err = r.client.Select(ctx, store.Query{
		Table: store.TableProfiles,
		Where: []store.Filter{store.Eq("id", id)},
		Limit: 1,
	}, &profiles)
	if err != nil {
		return nil, err
	}

	if len(profiles) == 0 {
		return nil, ErrNotFound
	}

	return &profiles[0], nil
}

// Update saves the non-nil fields, creating the row on first save.
func (r *Repository) Update(ctx context.Context, p UpdateParams) (*Profile, error) {
	id, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	v := store.Values{"updated_at": now}

	for column, value := range map[string]*string{
		"full_name":  p.FullName,
		"avatar_url": p.AvatarURL,
		"bio":        p.Bio,
	} {
		if value != nil {
			v[column] = *value
		}
	}

	if p.LanguagePreference != nil && *p.LanguagePreference != "" {
		v["language_preference"] = *p.LanguagePreference
	}

	var out Profile

	err = r.client.Update(ctx, store.TableProfiles, id, v, &out)
	if !errors.Is(err, store.ErrNoRows) {
		if err != nil {
			return nil, err
		}

		return &out, nil
	}

	v["id"] = id
	v["created_at"] = now

	if _, ok := v["language_preference"]; !ok {
		v["language_preference"] = DefaultLanguage
	}

	if err := r.client.Insert(ctx, store.TableProfiles, v, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
