package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/serenelabs/serenity/internal/auth"
	"github.com/serenelabs/serenity/internal/model/user"
	"github.com/serenelabs/serenity/internal/store"
	"github.com/serenelabs/serenity/pkg/utils"
)

// Password bounds from the signup form; 72 is also the bcrypt input limit.
const (
	minPasswordLen    = 6
	maxPasswordLen    = 72
	maxDisplayNameLen = 50
	maxEmailLen       = 255
)

// Handler serves account registration and login.
type Handler struct {
	users  store.UserStore
	tokens *auth.TokenService
}

// New creates the auth handler.
func New(users store.UserStore, tokens *auth.TokenService) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// RegisterRoutes mounts the public auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type sessionResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email, message := validateCredentials(payload)
	if message != "" {
		utils.RespondError(w, http.StatusBadRequest, message)
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to process password")
		return
	}

	account, err := h.users.Create(r.Context(), email, hash, strings.TrimSpace(payload.DisplayName))
	if errors.Is(err, store.ErrEmailTaken) {
		utils.RespondError(w, http.StatusConflict, "this email is already registered")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.respondWithToken(w, http.StatusCreated, account)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.users.ByEmail(r.Context(), strings.ToLower(strings.TrimSpace(payload.Email)))
	if errors.Is(err, store.ErrUserNotFound) {
		utils.RespondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	if err := auth.CheckPassword(account.PasswordHash, payload.Password); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.respondWithToken(w, http.StatusOK, account)
}

// HandleMe returns the authenticated account. Mounted behind the auth
// middleware.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	account, err := h.users.ByID(r.Context(), userID)
	if errors.Is(err, store.ErrUserNotFound) {
		utils.RespondError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	utils.RespondJSON(w, http.StatusOK, account)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, account user.User) {
	token, err := h.tokens.Generate(account.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	utils.RespondJSON(w, status, sessionResponse{User: account, Token: token})
}

// validateCredentials normalizes the email and applies the signup rules.
// Returns the normalized email, or a non-empty message on failure.
func validateCredentials(payload credentialsRequest) (string, string) {
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || len(email) > maxEmailLen {
		return "", "please enter a valid email address"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", "please enter a valid email address"
	}

	if len(payload.Password) < minPasswordLen {
		return "", "password must be at least 6 characters"
	}
	if len(payload.Password) > maxPasswordLen {
		return "", "password must be at most 72 characters"
	}

	if utf8.RuneCountInString(strings.TrimSpace(payload.DisplayName)) > maxDisplayNameLen {
		return "", "display name must be at most 50 characters"
	}

	return email, ""
}
