package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stash/internal/auth"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/http/respond"
	"github.com/MrJamesThe3rd/stash/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description string          `json:"description"`
	Category    budget.Category `json:"category"`
}

type learnRequest struct {
	Pattern  string          `json:"pattern"`
	Category budget.Category `json:"category"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context(), auth.SessionFromContext(r.Context()).Email)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, rules)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		respond.Error(w, r, domain.NewValidationError("description", "required"))
		return
	}

	category, err := h.svc.Suggest(r.Context(), auth.SessionFromContext(r.Context()).Email, desc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Description: desc, Category: category})
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.Learn(r.Context(), auth.SessionFromContext(r.Context()).Email, req.Pattern, req.Category); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
