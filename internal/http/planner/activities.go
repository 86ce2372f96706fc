package planner

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/http/respond"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

func (h *Handler) listTripActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.repos.Activities.ListForTrip(r.Context(), tripFrom(r.Context()).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, activities)
}

func (h *Handler) listStopActivities(w http.ResponseWriter, r *http.Request) {
	s, ok := h.stopOfTrip(w, r)
	if !ok {
		return
	}

	activities, err := h.repos.Activities.List(r.Context(), s.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, activities)
}

type createActivityRequest struct {
	ActivityID    *string             `json:"activity_id"`
	Name          string              `json:"name"`
	Category      *string             `json:"category"`
	ScheduledDate *trip.Date          `json:"scheduled_date"`
	ScheduledTime *string             `json:"scheduled_time"`
	DurationHours decimal.NullDecimal `json:"duration_hours"`
	Cost          decimal.Decimal     `json:"cost"`
	Notes         *string             `json:"notes"`
	OrderIndex    int                 `json:"order_index"`
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.stopOfTrip(w, r)
	if !ok {
		return
	}

	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := trip.ActivityDraft{Name: req.Name, Cost: req.Cost}
	if req.Category != nil {
		draft.Category = *req.Category
	}

	if fe := trip.ValidateActivityDraft(draft); fe != nil {
		respond.Error(w, r, fe)
		return
	}

	a, err := h.repos.Activities.Create(r.Context(), trip.CreateActivityParams{
		TripStopID:    s.ID,
		ActivityID:    req.ActivityID,
		Name:          req.Name,
		Category:      req.Category,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		DurationHours: req.DurationHours,
		Cost:          req.Cost,
		Notes:         req.Notes,
		OrderIndex:    req.OrderIndex,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, a)
}

type updateActivityRequest struct {
	Name          *string              `json:"name"`
	Category      *string              `json:"category"`
	ScheduledDate *trip.Date           `json:"scheduled_date"`
	ScheduledTime *string              `json:"scheduled_time"`
	DurationHours *decimal.NullDecimal `json:"duration_hours"`
	Cost          *decimal.Decimal     `json:"cost"`
	Notes         *string              `json:"notes"`
	IsCompleted   *bool                `json:"is_completed"`
	OrderIndex    *int                 `json:"order_index"`
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request) {
	a, ok := h.activityOfTrip(w, r)
	if !ok {
		return
	}

	var req updateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := trip.ActivityDraft{Name: a.Name, Cost: a.Cost}
	if a.Category != nil {
		draft.Category = *a.Category
	}

	if req.Name != nil {
		draft.Name = *req.Name
	}

	if req.Category != nil {
		draft.Category = *req.Category
	}

	if req.Cost != nil {
		draft.Cost = *req.Cost
	}

	if fe := trip.ValidateActivityDraft(draft); fe != nil {
		respond.Error(w, r, fe)
		return
	}

	updated, err := h.repos.Activities.Update(r.Context(), a.ID, trip.UpdateActivityParams{
		Name:          req.Name,
		Category:      req.Category,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		DurationHours: req.DurationHours,
		Cost:          req.Cost,
		Notes:         req.Notes,
		IsCompleted:   req.IsCompleted,
		OrderIndex:    req.OrderIndex,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

type completedRequest struct {
	Completed bool `json:"completed"`
}

func (h *Handler) setActivityCompleted(w http.ResponseWriter, r *http.Request) {
	a, ok := h.activityOfTrip(w, r)
	if !ok {
		return
	}

	var req completedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.repos.Activities.SetCompleted(r.Context(), a.ID, req.Completed)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request) {
	a, ok := h.activityOfTrip(w, r)
	if !ok {
		return
	}

	if err := h.repos.Activities.Delete(r.Context(), a.ID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// activityOfTrip loads {activityID} and checks its stop belongs to the trip
// in the path.
func (h *Handler) activityOfTrip(w http.ResponseWriter, r *http.Request) (*trip.Activity, bool) {
	id, ok := urlID(w, r, "activityID")
	if !ok {
		return nil, false
	}

	a, err := h.repos.Activities.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	s, err := h.repos.Stops.Get(r.Context(), a.TripStopID)
	if err == nil && s.TripID != tripFrom(r.Context()).ID {
		err = trip.ErrNotFound
	}

	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	return a, true
}
