package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/globetrotter/internal/auth"
	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/database"
	apihttp "github.com/MrJamesThe3rd/globetrotter/internal/http"
	catalogHandler "github.com/MrJamesThe3rd/globetrotter/internal/http/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/http/planner"
	profileHandler "github.com/MrJamesThe3rd/globetrotter/internal/http/profile"
	"github.com/MrJamesThe3rd/globetrotter/internal/importer"
	"github.com/MrJamesThe3rd/globetrotter/internal/profile"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
	"github.com/MrJamesThe3rd/globetrotter/internal/store/sqlstore"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

const (
	secret = "0123456789abcdef0123456789abcdef"
	alice  = "3d6f0a4e-2b1c-4d5e-8f7a-9b0c1d2e3f4a"
	bob    = "8e2a1f3b-4c5d-4e6f-9a0b-1c2d3e4f5a6b"
)

type api struct {
	t        *testing.T
	server   *httptest.Server
	verifier *auth.Verifier
	client   store.Client
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db, err := database.New("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))

	verifier, err := auth.NewVerifier(secret)
	require.NoError(t, err)

	var (
		client = sqlstore.New(db)
		c      = cache.New()
		repos  = trip.NewRepositories(client, c)
	)

	router := apihttp.New(
		apihttp.Options{Timeout: 5 * time.Second, AllowedOrigins: []string{"http://localhost:5173"}},
		verifier,
		planner.NewHandler(repos, importer.NewService(repos.Expenses)),
		catalogHandler.NewHandler(catalog.NewCities(client, c), catalog.NewActivities(client, c)),
		profileHandler.NewHandler(profile.NewRepository(client)),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &api{t: t, server: server, verifier: verifier, client: client}
}

func (a *api) token(user string) string {
	a.t.Helper()

	tok, err := a.verifier.Issue(user, time.Hour)
	require.NoError(a.t, err)

	return tok
}

// do sends body as JSON unless it is already a reader. user may be empty for
// an anonymous request.
func (a *api) do(method, path, user string, body any) *http.Response {
	a.t.Helper()

	var (
		r           io.Reader
		contentType = "application/json"
	)

	switch b := body.(type) {
	case nil:
	case multipartBody:
		r = b.buf
		contentType = b.contentType
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)

		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, r)
	require.NoError(a.t, err)

	if r != nil {
		req.Header.Set("Content-Type", contentType)
	}

	if user != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(user))
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

func csvUpload(t *testing.T, content string) multipartBody {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fw, err := mw.CreateFormFile("file", "expenses.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return multipartBody{buf: buf, contentType: mw.FormDataContentType()}
}

type tripBody struct {
	trip.Trip
	Status       string `json:"status"`
	DurationDays *int   `json:"duration_days"`
}

func (a *api) createTrip(user string, body map[string]any) tripBody {
	a.t.Helper()

	resp := a.do(http.MethodPost, "/api/v1/trips", user, body)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	return decode[tripBody](a.t, resp)
}

func TestAPI_Authentication(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "Anonymous", header: "", want: http.StatusUnauthorized},
		{name: "NotBearer", header: "Basic Zm9vOmJhcg==", want: http.StatusUnauthorized},
		{name: "BadToken", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "Valid", header: "Bearer " + a.token(alice), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, a.server.URL+"/api/v1/trips", nil)
			require.NoError(t, err)

			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAPI_TripLifecycle(t *testing.T) {
	a := newAPI(t)

	created := a.createTrip(alice, map[string]any{
		"name":         "  Japan in spring ",
		"start_date":   "2026-04-01",
		"end_date":     "2026-04-10",
		"total_budget": "3000",
	})
	assert.Equal(t, alice, created.UserID)
	require.NotNil(t, created.DurationDays)
	assert.Equal(t, 10, *created.DurationDays)
	assert.NotEmpty(t, created.Status)

	resp := a.do(http.MethodGet, "/api/v1/trips", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]tripBody](t, resp), 1)

	resp = a.do(http.MethodGet, "/api/v1/trips", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]tripBody](t, resp))

	resp = a.do(http.MethodPatch, "/api/v1/trips/"+created.ID, alice, map[string]any{"end_date": "", "name": "Japan"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decode[tripBody](t, resp)
	assert.Equal(t, "Japan", updated.Name)
	assert.Nil(t, updated.EndDate, "an empty date clears it")
	assert.Nil(t, updated.DurationDays)

	resp = a.do(http.MethodDelete, "/api/v1/trips/"+created.ID, alice, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/v1/trips/"+created.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_TripAccess(t *testing.T) {
	a := newAPI(t)

	private := a.createTrip(alice, map[string]any{"name": "Private"})
	public := a.createTrip(alice, map[string]any{"name": "Public", "is_public": true})

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		want   int
	}{
		{name: "OwnerReadsPrivate", method: http.MethodGet, path: "/api/v1/trips/" + private.ID, user: alice, want: http.StatusOK},
		{name: "OtherUserCannotSeePrivate", method: http.MethodGet, path: "/api/v1/trips/" + private.ID, user: bob, want: http.StatusNotFound},
		{name: "AnonymousReadsPublic", method: http.MethodGet, path: "/api/v1/trips/" + public.ID, want: http.StatusOK},
		{name: "AnonymousReadsPublicStops", method: http.MethodGet, path: "/api/v1/trips/" + public.ID + "/stops", want: http.StatusOK},
		{name: "OtherUserCannotEditPublic", method: http.MethodPatch, path: "/api/v1/trips/" + public.ID, user: bob, body: map[string]any{"name": "Mine"}, want: http.StatusForbidden},
		{name: "AnonymousCannotEditPublic", method: http.MethodDelete, path: "/api/v1/trips/" + public.ID, want: http.StatusUnauthorized},
		{name: "MalformedID", method: http.MethodGet, path: "/api/v1/trips/not-a-uuid", user: alice, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.do(tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAPI_Validation(t *testing.T) {
	a := newAPI(t)

	resp := a.do(http.MethodPost, "/api/v1/trips", alice, map[string]any{
		"name":       "",
		"start_date": "2026-04-10",
		"end_date":   "2026-04-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, resp)
	assert.Equal(t, "Trip name is required", body.Errors["name"])
	assert.Equal(t, "End date cannot be before start date.", body.Errors["end_date"])

	resp = a.do(http.MethodPost, "/api/v1/trips", alice, map[string]any{
		"name":         "Broke",
		"total_budget": "-50",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body = decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, resp)
	assert.Equal(t, "Budget cannot be negative", body.Errors["total_budget"])

	tr := a.createTrip(alice, map[string]any{"name": "Lisbon"})

	resp = a.do(http.MethodPatch, "/api/v1/trips/"+tr.ID, alice, map[string]any{"total_budget": -1})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = a.do(http.MethodPost, "/api/v1/trips/"+tr.ID+"/expenses", alice, map[string]any{
		"category": "spa",
		"amount":   "0",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body = decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, resp)
	assert.Equal(t, "Unknown category", body.Errors["category"])
	assert.Equal(t, "Amount must be greater than zero", body.Errors["amount"])
}

func TestAPI_Overview(t *testing.T) {
	a := newAPI(t)

	tr := a.createTrip(alice, map[string]any{"name": "Portugal", "total_budget": 500})
	base := "/api/v1/trips/" + tr.ID

	resp := a.do(http.MethodPost, base+"/stops", alice, map[string]any{"city_name": "Lisbon"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lisbon := decode[trip.Stop](t, resp)

	resp = a.do(http.MethodPost, base+"/stops", alice, map[string]any{"city_name": "Porto"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	porto := decode[trip.Stop](t, resp)
	assert.Equal(t, 1, porto.OrderIndex, "new stops go last")

	resp = a.do(http.MethodPost, base+"/stops/"+lisbon.ID+"/activities", alice, map[string]any{
		"name":           "Tram 28",
		"cost":           3,
		"scheduled_date": "2026-05-02",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tram := decode[trip.Activity](t, resp)

	resp = a.do(http.MethodPost, base+"/stops/"+porto.ID+"/activities", alice, map[string]any{"name": "Port tasting", "cost": 25})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do(http.MethodPut, base+"/activities/"+tram.ID+"/completed", alice, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[trip.Activity](t, resp).IsCompleted)

	for _, e := range []map[string]any{
		{"category": "food", "amount": "40"},
		{"category": "transport", "amount": "60", "trip_stop_id": porto.ID},
	} {
		resp = a.do(http.MethodPost, base+"/expenses", alice, e)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp = a.do(http.MethodGet, base+"/overview", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	o := decode[struct {
		Stops []struct {
			trip.Stop
			ActivityCost decimal.Decimal `json:"activity_cost"`
		} `json:"stops"`
		Schedule []struct {
			Key        string          `json:"key"`
			Title      string          `json:"title"`
			Activities []trip.Activity `json:"activities"`
		} `json:"schedule"`
		Budget struct {
			TotalCost decimal.Decimal `json:"total_cost"`
			Remaining decimal.Decimal `json:"remaining"`
			Breakdown []struct {
				Category string          `json:"category"`
				Total    decimal.Decimal `json:"total"`
			} `json:"breakdown"`
		} `json:"budget"`
	}](t, resp)

	require.Len(t, o.Stops, 2)
	assert.Equal(t, "Lisbon", o.Stops[0].CityName)
	assert.True(t, decimal.NewFromInt(3).Equal(o.Stops[0].ActivityCost))

	require.Len(t, o.Schedule, 2)
	assert.Equal(t, "Saturday, May 2", o.Schedule[0].Title)
	assert.Equal(t, "Unscheduled", o.Schedule[1].Key)

	assert.True(t, decimal.NewFromInt(128).Equal(o.Budget.TotalCost))
	assert.True(t, decimal.NewFromInt(372).Equal(o.Budget.Remaining))
	require.Len(t, o.Budget.Breakdown, 2)
	assert.Equal(t, "transport", o.Budget.Breakdown[0].Category)

	resp = a.do(http.MethodDelete, base+"/stops/"+porto.ID, alice, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(http.MethodGet, base+"/activities", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]trip.Activity](t, resp), 1, "a stop's activities go with it")
}

func TestAPI_ChildrenMustBelongToTrip(t *testing.T) {
	a := newAPI(t)

	first := a.createTrip(alice, map[string]any{"name": "First"})
	second := a.createTrip(alice, map[string]any{"name": "Second"})

	resp := a.do(http.MethodPost, "/api/v1/trips/"+first.ID+"/expenses", alice, map[string]any{"category": "food", "amount": "9"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	e := decode[trip.Expense](t, resp)

	resp = a.do(http.MethodDelete, "/api/v1/trips/"+second.ID+"/expenses/"+e.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/v1/trips/"+first.ID+"/expenses", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]trip.Expense](t, resp), 1)
}

func TestAPI_ImportExpenses(t *testing.T) {
	a := newAPI(t)

	tr := a.createTrip(alice, map[string]any{"name": "Lisbon"})
	path := "/api/v1/trips/" + tr.ID + "/expenses/import"

	resp := a.do(http.MethodPost, path, alice, csvUpload(t, "date;category;description;amount\n2026-03-14;food;Nata;1,20\n2026-03-14;hotel;Hostel;35\n"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[struct {
		Imported int            `json:"imported"`
		Expenses []trip.Expense `json:"expenses"`
	}](t, resp)
	assert.Equal(t, 2, body.Imported)
	assert.Equal(t, trip.CategoryAccommodation, body.Expenses[1].Category)

	resp = a.do(http.MethodPost, path, alice, csvUpload(t, "nothing;useful\n"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(http.MethodPost, path, bob, csvUpload(t, "date;amount\n2026-03-14;1\n"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "private trips are invisible to others")
}

func TestAPI_Catalog(t *testing.T) {
	a := newAPI(t)
	ctx := context.Background()

	for i, name := range []string{"Paris", "Lisbon", "Kyoto"} {
		var c catalog.City
		require.NoError(t, a.client.Insert(ctx, store.TableCities, store.Values{
			"name": name, "country": "X", "popularity": 10 * (i + 1),
		}, &c))
	}

	resp := a.do(http.MethodGet, "/api/v1/catalog/cities/popular?limit=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cities := decode[[]catalog.City](t, resp)
	require.Len(t, cities, 2)
	assert.Equal(t, "Kyoto", cities[0].Name)

	resp = a.do(http.MethodGet, "/api/v1/catalog/cities?q=lis", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cities = decode[[]catalog.City](t, resp)
	require.Len(t, cities, 1)

	resp = a.do(http.MethodGet, "/api/v1/catalog/cities/"+cities[0].ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/v1/catalog/cities/popular?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Profile(t *testing.T) {
	a := newAPI(t)

	resp := a.do(http.MethodGet, "/api/v1/profile", alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(http.MethodPatch, "/api/v1/profile", alice, map[string]any{"full_name": "Alice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p := decode[profile.Profile](t, resp)
	assert.Equal(t, alice, p.ID)
	assert.Equal(t, profile.DefaultLanguage, p.LanguagePreference)

	resp = a.do(http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
