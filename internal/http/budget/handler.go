package budget

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stash/internal/auth"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/http/respond"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/profile", h.updateProfile)
	r.Post("/expenses", h.addExpense)
	r.Delete("/expenses/{id}", h.deleteExpense)
	r.Post("/income", h.addIncome)
	r.Post("/goals", h.createGoal)
	r.Put("/goals/{id}", h.editGoal)
	r.Post("/goals/{id}/contributions", h.contribute)
	r.Post("/notifications/read", h.markRead)
}

type stateResponse struct {
	State   *budget.State  `json:"state"`
	Summary budget.Summary `json:"summary"`
}

type profileRequest struct {
	MonthlyAllowance float64 `json:"monthlyAllowance"`
	Currency         string  `json:"currency"`
}

type expenseRequest struct {
	Amount      float64         `json:"amount"`
	Category    budget.Category `json:"category"`
	Description string          `json:"description"`
}

type incomeRequest struct {
	Amount float64 `json:"amount"`
	Source string  `json:"source"`
}

type goalRequest struct {
	Title          string          `json:"title"`
	TargetAmount   float64         `json:"targetAmount"`
	Type           budget.GoalType `json:"type"`
	DurationMonths int             `json:"durationMonths"`
	Deadline       *time.Time      `json:"deadline,omitempty"`
}

func (req goalRequest) params() budget.GoalParams {
	return budget.GoalParams{
		Title:          req.Title,
		TargetAmount:   req.TargetAmount,
		Type:           req.Type,
		DurationMonths: req.DurationMonths,
		Deadline:       req.Deadline,
	}
}

type contributionRequest struct {
	Amount float64 `json:"amount"`
}

type goalResponse struct {
	*budget.SavingGoal
	ProgressPercent float64 `json:"progressPercent"`
}

func toGoalResponse(g *budget.SavingGoal) goalResponse {
	return goalResponse{SavingGoal: g, ProgressPercent: g.ProgressPercent()}
}

// controller opens the budget of the authenticated user, writing the error response on failure.
func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*budget.Controller, bool) {
	ctrl, err := h.svc.Open(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	return ctrl, true
}

func (h *Handler) writeState(w http.ResponseWriter, status int, ctrl *budget.Controller) {
	state := ctrl.State()
	respond.JSON(w, status, stateResponse{State: state, Summary: state.Summary()})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	h.writeState(w, http.StatusOK, ctrl)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := ctrl.UpdateProfile(r.Context(), req.MonthlyAllowance, req.Currency); err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeState(w, http.StatusOK, ctrl)
}

func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	exp, err := ctrl.AddExpense(r.Context(), req.Amount, req.Category, req.Description)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, exp)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := ctrl.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := ctrl.AddIncome(r.Context(), req.Amount, req.Source); err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeState(w, http.StatusOK, ctrl)
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	goal, err := ctrl.CreateGoal(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (h *Handler) editGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	goal, err := ctrl.EditGoal(r.Context(), chi.URLParam(r, "id"), req.params())
	h.writeGoal(w, r, goal, err)
}

func (h *Handler) contribute(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	goal, err := ctrl.ContributeToGoal(r.Context(), chi.URLParam(r, "id"), req.Amount)
	h.writeGoal(w, r, goal, err)
}

// writeGoal maps the nil goal returned for an unknown id to 404.
func (h *Handler) writeGoal(w http.ResponseWriter, r *http.Request, goal *budget.SavingGoal, err error) {
	if err == nil && goal == nil {
		err = domain.ErrNotFound
	}

	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toGoalResponse(goal))
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := ctrl.MarkAllNotificationsRead(r.Context()); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
