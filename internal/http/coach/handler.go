package coach

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stash/internal/advice"
	"github.com/MrJamesThe3rd/stash/internal/auth"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/http/respond"
)

type Handler struct {
	coach   *advice.Coach
	budgets *budget.Service
}

func NewHandler(coach *advice.Coach, budgets *budget.Service) *Handler {
	return &Handler{coach: coach, budgets: budgets}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.ask)
	r.Get("/", h.latest)
}

// ask answers 204 when no advice could be produced.
func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.budgets.Open(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	writeAdvice(w, h.coach.Ask(r.Context(), ctrl.UserKey(), ctrl.State()))
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.budgets.Open(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	writeAdvice(w, h.coach.Latest(ctrl.UserKey()))
}

func writeAdvice(w http.ResponseWriter, a *advice.Advice) {
	if a == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respond.JSON(w, http.StatusOK, a)
}
