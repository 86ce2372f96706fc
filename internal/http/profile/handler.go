package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/globetrotter/internal/http/respond"
	"github.com/MrJamesThe3rd/globetrotter/internal/profile"
)

type Handler struct {
	repo *profile.Repository
}

func NewHandler(repo *profile.Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.update)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.Get(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, p)
}

type updateRequest struct {
	FullName           *string `json:"full_name"`
	AvatarURL          *string `json:"avatar_url"`
	Bio                *string `json:"bio"`
	LanguagePreference *string `json:"language_preference"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.repo.Update(r.Context(), profile.UpdateParams{
		FullName:           req.FullName,
		AvatarURL:          req.AvatarURL,
		Bio:                req.Bio,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, p)
}
