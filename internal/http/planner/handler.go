// Package planner serves trips and everything nested under them: stops,
// activities, expenses and expense imports.
package planner

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/globetrotter/internal/auth"
	"github.com/MrJamesThe3rd/globetrotter/internal/http/respond"
	"github.com/MrJamesThe3rd/globetrotter/internal/importer"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

// maxImportSize bounds an uploaded expense file.
const maxImportSize = 10 << 20

type Handler struct {
	repos     *trip.Repositories
	importSvc *importer.Service
	now       func() time.Time
}

func NewHandler(repos *trip.Repositories, importSvc *importer.Service) *Handler {
	return &Handler{
		repos:     repos,
		importSvc: importSvc,
		now:       time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.listTrips)
	r.Post("/", h.createTrip)
	r.Get("/upcoming", h.upcomingTrips)

	r.Route("/{tripID}", func(r chi.Router) {
		r.Use(h.loadTrip)

		r.Get("/", h.getTrip)
		r.Get("/overview", h.overview)
		r.Get("/stops", h.listStops)
		r.Get("/stops/{stopID}/activities", h.listStopActivities)
		r.Get("/activities", h.listTripActivities)
		r.Get("/expenses", h.listExpenses)

		r.Group(func(r chi.Router) {
			r.Use(requireOwner)

			r.Patch("/", h.updateTrip)
			r.Delete("/", h.deleteTrip)

			r.Post("/stops", h.createStop)
			r.Patch("/stops/{stopID}", h.updateStop)
			r.Delete("/stops/{stopID}", h.deleteStop)

			r.Post("/stops/{stopID}/activities", h.createActivity)
			r.Patch("/activities/{activityID}", h.updateActivity)
			r.Put("/activities/{activityID}/completed", h.setActivityCompleted)
			r.Delete("/activities/{activityID}", h.deleteActivity)

			r.Post("/expenses", h.createExpense)
			r.Post("/expenses/import", h.importExpenses)
			r.Patch("/expenses/{expenseID}", h.updateExpense)
			r.Delete("/expenses/{expenseID}", h.deleteExpense)
		})
	})
}

type tripKey struct{}

func tripFrom(ctx context.Context) *trip.Trip {
	t, _ := ctx.Value(tripKey{}).(*trip.Trip)
	return t
}

// loadTrip resolves {tripID} for every nested route. A trip the caller may
// not read answers 404 like a missing one.
func (h *Handler) loadTrip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "tripID")
		if !ok {
			return
		}

		t, err := h.repos.Trips.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tripKey{}, t)))
	})
}

// requireOwner lets only the trip's owner change it or its children.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.RequireUser(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		if tripFrom(r.Context()).UserID != user {
			respond.Error(w, r, respond.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// urlID reads a uuid path parameter, answering 400 when it is malformed.
func urlID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return "", false
	}

	return id.String(), true
}
