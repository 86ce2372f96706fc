package planner

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/globetrotter/internal/http/respond"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

func (h *Handler) listStops(w http.ResponseWriter, r *http.Request) {
	stops, err := h.repos.Stops.List(r.Context(), tripFrom(r.Context()).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, stops)
}

type createStopRequest struct {
	CityID     *string    `json:"city_id"`
	CityName   string     `json:"city_name"`
	Country    *string    `json:"country"`
	StartDate  *trip.Date `json:"start_date"`
	EndDate    *trip.Date `json:"end_date"`
	OrderIndex *int       `json:"order_index"`
	Notes      *string    `json:"notes"`
}

func (h *Handler) createStop(w http.ResponseWriter, r *http.Request) {
	t := tripFrom(r.Context())

	var req createStopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.CityName) == "" {
		respond.Error(w, r, trip.FieldErrors{"city_name": "City is required"})
		return
	}

	// New stops go last unless the client places them.
	var order int
	if req.OrderIndex != nil {
		order = *req.OrderIndex
	} else {
		existing, err := h.repos.Stops.List(r.Context(), t.ID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		order = len(existing)
	}

	s, err := h.repos.Stops.Create(r.Context(), trip.CreateStopParams{
		TripID:     t.ID,
		CityID:     req.CityID,
		CityName:   strings.TrimSpace(req.CityName),
		Country:    req.Country,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		OrderIndex: order,
		Notes:      req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, s)
}

type updateStopRequest struct {
	CityID     *string    `json:"city_id"`
	CityName   *string    `json:"city_name"`
	Country    *string    `json:"country"`
	StartDate  *trip.Date `json:"start_date"`
	EndDate    *trip.Date `json:"end_date"`
	OrderIndex *int       `json:"order_index"`
	Notes      *string    `json:"notes"`
}

func (h *Handler) updateStop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.stopOfTrip(w, r)
	if !ok {
		return
	}

	var req updateStopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CityName != nil && strings.TrimSpace(*req.CityName) == "" {
		respond.Error(w, r, trip.FieldErrors{"city_name": "City is required"})
		return
	}

	updated, err := h.repos.Stops.Update(r.Context(), s.ID, trip.UpdateStopParams{
		CityID:     req.CityID,
		CityName:   req.CityName,
		Country:    req.Country,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		OrderIndex: req.OrderIndex,
		Notes:      req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteStop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.stopOfTrip(w, r)
	if !ok {
		return
	}

	if err := h.repos.Stops.Delete(r.Context(), s.ID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// stopOfTrip loads {stopID} and checks it belongs to the trip in the path.
func (h *Handler) stopOfTrip(w http.ResponseWriter, r *http.Request) (*trip.Stop, bool) {
	id, ok := urlID(w, r, "stopID")
	if !ok {
		return nil, false
	}

	s, err := h.repos.Stops.Get(r.Context(), id)
	if err == nil && s.TripID != tripFrom(r.Context()).ID {
		err = trip.ErrNotFound
	}

	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	return s, true
}
