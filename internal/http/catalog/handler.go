package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/globetrotter/internal/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/http/respond"
)

type Handler struct {
	cities     *catalog.Cities
	activities *catalog.Activities
}

func NewHandler(cities *catalog.Cities, activities *catalog.Activities) *Handler {
	return &Handler{cities: cities, activities: activities}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/cities", h.searchCities)
	r.Get("/cities/popular", h.popularCities)
	r.Get("/cities/{id}", h.getCity)
	r.Get("/activities", h.listActivities)
}

func (h *Handler) searchCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.cities.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, cities)
}

// popularCities is served from the shared cache: catalog rows are the same
// for every caller.
func (h *Handler) popularCities(w http.ResponseWriter, r *http.Request) {
	limit := catalog.DefaultPopularLimit

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 50 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	cities, err := h.cities.PopularQuery(limit).Get(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, cities)
}

func (h *Handler) getCity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	city, err := h.cities.Get(r.Context(), id.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, city)
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activities.List(r.Context(), catalog.ActivityFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, activities)
}
