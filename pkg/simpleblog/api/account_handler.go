package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// AccountHandler exposes the auth service over HTTP
type AccountHandler struct {
	auth   *simpleblog.AuthService
	logger *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(auth *simpleblog.AuthService, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{auth: auth, logger: logger}
}

// Routes returns the router for account endpoints
func (h *AccountHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateAccount)
	r.Get("/", h.GetUser)
	r.Post("/sessions", h.Login)
	r.Delete("/sessions", h.Logout)
	return r
}

// SessionResponse is returned by signup and login
type SessionResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Expire string `json:"expire,omitempty"`
}

// UserResponse is the current account
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateAccount registers an account and logs it in
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req simpleblog.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.auth.CreateAccount(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to create account", err)
		return
	}
	if session == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse(session))
}

// Login opens an email/password session
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req simpleblog.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to log in", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse(session))
}

// GetUser returns the account of the current session
func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUser(r.Context())
	if errors.Is(err, simpleblog.ErrNoSession) {
		http.Error(w, "No active session", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.fail(w, r, "Failed to get user", err)
		return
	}
	render.JSON(w, r, UserResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Logout deletes every session of the current account
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.fail(w, r, "Failed to log out", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail reports an auth error with the platform's status, or 502 when the
// platform was not reached.
func (h *AccountHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, "error", err, "request_id", middleware.GetReqID(r.Context()))
	http.Error(w, msg, simpleblog.StatusForError(err, http.StatusBadGateway))
}

func sessionResponse(s *simpleblog.Session) SessionResponse {
	return SessionResponse{ID: s.ID, UserID: s.UserID, Expire: s.Expire}
}
