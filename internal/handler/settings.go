package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/seed"
	"github.com/dmaguire/rsvp/internal/store"
)

type SettingsHandler struct {
	users     *store.UserStore
	seeder    *seed.Seeder
	templates *template.Template
	logger    *slog.Logger
}

func NewSettingsHandler(users *store.UserStore, seeder *seed.Seeder, templates *template.Template, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{users: users, seeder: seeder, templates: templates, logger: logger}
}

func (h *SettingsHandler) Page(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	user, err := h.users.GetByID(userID)
	if err != nil || user == nil {
		h.logger.Error("load settings", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	hasToken := user.APIToken != nil && *user.APIToken != ""
	renderPage(w, h.templates, h.logger, "settings.html", map[string]any{
		"Email":         user.Email,
		"EmailVerified": user.EmailVerified,
		"HasAPIToken":   hasToken,
	})
}

func (h *SettingsHandler) LoadSampleData(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if err := h.seeder.Load(userID); err != nil {
		h.logger.Error("load sample data", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// ResetSampleData wipes the account's events, guests and invitations and
// reloads the sample set.
func (h *SettingsHandler) ResetSampleData(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if err := h.seeder.Reset(userID); err != nil {
		h.logger.Error("reset sample data", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
