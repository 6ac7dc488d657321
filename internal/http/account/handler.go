package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stash/internal/advice"
	"github.com/MrJamesThe3rd/stash/internal/auth"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/http/respond"
	"github.com/MrJamesThe3rd/stash/internal/identity"
)

type Handler struct {
	identity *identity.Store
	tokens   *auth.JWTManager
	budgets  *budget.Service
	coach    *advice.Coach
}

func NewHandler(identity *identity.Store, tokens *auth.JWTManager, budgets *budget.Service, coach *advice.Coach) *Handler {
	return &Handler{
		identity: identity,
		tokens:   tokens,
		budgets:  budgets,
		coach:    coach,
	}
}

// Routes registers the unauthenticated endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// SessionRoutes registers the endpoints that need a bearer token.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.Post("/logout", h.logout)
	r.Get("/session", h.session)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Session   *identity.Session `json:"session"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	session, err := h.identity.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.issue(w, r, http.StatusCreated, session)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	session, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.issue(w, r, http.StatusOK, session)
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request, status int, session *identity.Session) {
	token, expires, err := h.tokens.Generate(session)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, status, tokenResponse{Token: token, ExpiresAt: expires, Session: session})
}

// logout drops the user's cached budget and advice. Tokens stay valid until they expire.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	h.budgets.Release(session.Email)
	h.coach.Discard(identity.NormalizeEmail(session.Email))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, auth.SessionFromContext(r.Context()))
}
