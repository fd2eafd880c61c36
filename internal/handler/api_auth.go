package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmaguire/rsvp/internal/store"
)

type APIAuthHandler struct {
	users  *store.UserStore
	logger *slog.Logger
}

func NewAPIAuthHandler(users *store.UserStore, logger *slog.Logger) *APIAuthHandler {
	return &APIAuthHandler{users: users, logger: logger}
}

func generateAPIToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Token exchanges email + password for the account's API token, minting one
// on first use. The token is persistent; repeat calls return the same value.
func (h *APIAuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		apiError(w, http.StatusBadRequest, "Email and password are required", "VALIDATION_ERROR")
		return
	}

	user, err := h.users.GetByEmail(email)
	if err != nil {
		h.logger.Error("token lookup", "error", err)
		apiError(w, http.StatusInternalServerError, "Internal server error", "ERROR")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		apiError(w, http.StatusUnauthorized, "Invalid email or password", "AUTH_ERROR")
		return
	}

	token := ""
	if user.APIToken != nil {
		token = *user.APIToken
	}
	if token == "" {
		token, err = generateAPIToken()
		if err != nil {
			h.logger.Error("generate api token", "error", err)
			apiError(w, http.StatusInternalServerError, "Internal server error", "ERROR")
			return
		}
		if err := h.users.SetAPIToken(user.ID, token); err != nil {
			h.logger.Error("store api token", "error", err)
			apiError(w, http.StatusInternalServerError, "Internal server error", "ERROR")
			return
		}
	}

	apiSuccess(w, http.StatusOK, map[string]any{
		"token":   token,
		"user_id": user.ID,
		"email":   user.Email,
	})
}
