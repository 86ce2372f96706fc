package planner

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/http/respond"
	"github.com/MrJamesThe3rd/globetrotter/internal/itinerary"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

func (h *Handler) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.repos.Trips.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		trips = itinerary.Search(trips, q)
	}

	respond.JSON(w, http.StatusOK, toTripResponseList(trips, h.now()))
}

func (h *Handler) upcomingTrips(w http.ResponseWriter, r *http.Request) {
	limit := 0

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	trips, err := h.repos.Trips.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	now := h.now()

	respond.JSON(w, http.StatusOK, toTripResponseList(itinerary.Upcoming(trips, now, limit), now))
}

type createTripRequest struct {
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	CoverImageURL *string         `json:"cover_image_url"`
	StartDate     *trip.Date      `json:"start_date"`
	EndDate       *trip.Date      `json:"end_date"`
	IsPublic      bool            `json:"is_public"`
	TotalBudget   decimal.Decimal `json:"total_budget"`
}

func (h *Handler) createTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := trip.TripDraft{
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalBudget: req.TotalBudget,
	}
	if req.Description != nil {
		draft.Description = *req.Description
	}

	if fe := trip.ValidateTripDraft(draft); fe != nil {
		respond.Error(w, r, fe)
		return
	}

	t, err := h.repos.Trips.Create(r.Context(), trip.CreateTripParams{
		Name:          req.Name,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsPublic:      req.IsPublic,
		TotalBudget:   req.TotalBudget,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toTripResponse(*t, h.now()))
}

func (h *Handler) getTrip(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, toTripResponse(*tripFrom(r.Context()), h.now()))
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	o := trip.LoadOverview(r.Context(), h.repos, tripFrom(r.Context()).ID)
	if err := o.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toOverviewResponse(o, h.now()))
}

type updateTripRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	CoverImageURL *string          `json:"cover_image_url"`
	StartDate     *trip.Date       `json:"start_date"`
	EndDate       *trip.Date       `json:"end_date"`
	IsPublic      *bool            `json:"is_public"`
	ShareCode     *string          `json:"share_code"`
	TotalBudget   *decimal.Decimal `json:"total_budget"`
}

func (h *Handler) updateTrip(w http.ResponseWriter, r *http.Request) {
	current := tripFrom(r.Context())

	var req updateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate the trip as it will be after the change.
	draft := trip.TripDraft{
		Name:        current.Name,
		StartDate:   current.StartDate,
		EndDate:     current.EndDate,
		TotalBudget: current.TotalBudget,
	}
	if current.Description != nil {
		draft.Description = *current.Description
	}

	if req.Name != nil {
		draft.Name = *req.Name
	}

	if req.Description != nil {
		draft.Description = *req.Description
	}

	if req.StartDate != nil {
		draft.StartDate = req.StartDate
	}

	if req.EndDate != nil {
		draft.EndDate = req.EndDate
	}

	if req.TotalBudget != nil {
		draft.TotalBudget = *req.TotalBudget
	}

	if fe := trip.ValidateTripDraft(draft); fe != nil {
		respond.Error(w, r, fe)
		return
	}

	t, err := h.repos.Trips.Update(r.Context(), current.ID, trip.UpdateTripParams{
		Name:          req.Name,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsPublic:      req.IsPublic,
		ShareCode:     req.ShareCode,
		TotalBudget:   req.TotalBudget,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTripResponse(*t, h.now()))
}

func (h *Handler) deleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.repos.Trips.Delete(r.Context(), tripFrom(r.Context()).ID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
