package handler

import (
	"errors"
	"fmt"
	"net/http"

	"teamtasks/internal/domain"
	"teamtasks/internal/models"
)

// RegisterHandler - POST /api/register, answers with the new user.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.creds.Register(r.Context(), req.Input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.RegisteredResponse{
		Message: "User registered successfully",
		User:    models.NewUserResponse(u),
	})
}

// CreateUserHandler - POST /api/users, registers and signs the user in.
func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.creds.Register(r.Context(), req.Input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.creds.IssueToken(u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: models.NewUserResponse(u)})
}

// LoginHandler - POST /api/auth. An unknown login answers 401 like a wrong
// password.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Login == "" || req.Password == "" {
		h.writeError(w, r, fmt.Errorf("%w: login and password are required", domain.ErrValidation))
		return
	}

	token, u, err := h.creds.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
		}
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: models.NewUserResponse(u)})
}

// LeadersHandler - GET /api/leaders, used by the signup form.
func (h *Handler) LeadersHandler(w http.ResponseWriter, r *http.Request) {
	leaders, err := h.creds.Leaders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewLeaderSummaries(leaders))
}

// UsersHandler - GET /api/users, the public user directory.
func (h *Handler) UsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.creds.Users(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewUserList(users))
}

// SubordinatesHandler - GET /api/users/subordinates for the current user.
func (h *Handler) SubordinatesHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := h.creds.Subordinates(r.Context(), currentUser(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSubordinateList(subs))
}
