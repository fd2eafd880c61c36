package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmaguire/rsvp/internal/email"
	"github.com/dmaguire/rsvp/internal/handler"
	"github.com/dmaguire/rsvp/internal/middleware"
	"github.com/dmaguire/rsvp/internal/seed"
	"github.com/dmaguire/rsvp/internal/service"
	"github.com/dmaguire/rsvp/internal/store"
	ws "github.com/dmaguire/rsvp/internal/websocket"
	"github.com/dmaguire/rsvp/web"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	apiAuthH     *handler.APIAuthHandler
	apiEventH    *handler.APIEventHandler
	apiGuestH    *handler.APIGuestHandler
	apiInvH      *handler.APIInvitationHandler
	eventPageH   *handler.EventPageHandler
	guestPageH   *handler.GuestPageHandler
	invPageH     *handler.InvitationPageHandler
	settingsH    *handler.SettingsHandler
	exportH      *handler.ExportHandler
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, emailClient *email.Client, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	eventStore := store.NewEventStore(db)
	guestStore := store.NewGuestStore(db)
	invitationStore := store.NewInvitationStore(db)

	eventSvc := service.NewEventService(eventStore, guestStore, invitationStore)
	guestSvc := service.NewGuestService(guestStore)
	invitationSvc := service.NewInvitationService(invitationStore, eventStore, guestStore)
	seeder := seed.New(eventStore, guestStore, invitationStore)

	templates := handler.ParseTemplates()

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, emailClient, templates, logger.With("component", "auth")),
		apiAuthH:     handler.NewAPIAuthHandler(userStore, logger.With("component", "api_auth")),
		apiEventH:    handler.NewAPIEventHandler(eventSvc, invitationStore, guestStore, hub, logger.With("component", "api_event")),
		apiGuestH:    handler.NewAPIGuestHandler(guestSvc, invitationStore, eventStore, hub, logger.With("component", "api_guest")),
		apiInvH:      handler.NewAPIInvitationHandler(invitationSvc, guestStore, hub, logger.With("component", "api_invitation")),
		eventPageH:   handler.NewEventPageHandler(eventSvc, invitationSvc, guestStore, invitationStore, hub, templates, logger.With("component", "event_page")),
		guestPageH:   handler.NewGuestPageHandler(guestSvc, invitationStore, hub, templates, logger.With("component", "guest_page")),
		invPageH:     handler.NewInvitationPageHandler(invitationSvc, hub, logger.With("component", "invitation_page")),
		settingsH:    handler.NewSettingsHandler(userStore, seeder, templates, logger.With("component", "settings")),
		exportH:      handler.NewExportHandler(eventSvc, guestSvc, invitationStore, guestStore, logger.With("component", "export")),
		userStore:    userStore,
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /signup", s.authH.SignupPage)
	outerMux.HandleFunc("POST /signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("GET /verify-email", s.authH.VerifyEmail)
	outerMux.HandleFunc("GET /forgot-password", s.authH.ForgotPasswordPage)
	outerMux.HandleFunc("POST /forgot-password", s.rateLimitedHandler(s.authH.ForgotPassword))
	outerMux.HandleFunc("GET /reset-password", s.authH.ResetPasswordPage)
	outerMux.HandleFunc("POST /reset-password", s.rateLimitedHandler(s.authH.ResetPassword))
	outerMux.Handle("GET /static/", http.FileServerFS(web.Static))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /api/v1/auth/token", s.rateLimitedHandler(s.apiAuthH.Token))

	// Token API routes, wrapped with RequireAPIAuth
	apiMux := http.NewServeMux()
	s.registerAPIRoutes(apiMux)
	apiAuthMiddleware := middleware.RequireAPIAuth(s.userStore, s.sessionStore)
	outerMux.Handle("/api/v1/", apiAuthMiddleware(apiMux))

	// Protected HTML routes, wrapped with RequireAuth
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	// Event routes
	mux.HandleFunc("GET /api/v1/events", s.apiEventH.List)
	mux.HandleFunc("POST /api/v1/events", s.apiEventH.Create)
	mux.HandleFunc("GET /api/v1/events/export", s.exportH.Events)
	mux.HandleFunc("GET /api/v1/events/{id}", s.apiEventH.Get)
	mux.HandleFunc("PUT /api/v1/events/{id}", s.apiEventH.Update)
	mux.HandleFunc("DELETE /api/v1/events/{id}", s.apiEventH.Delete)
	mux.HandleFunc("GET /api/v1/events/{id}/export", s.exportH.EventGuests)

	// Guest routes
	mux.HandleFunc("GET /api/v1/guests", s.apiGuestH.List)
	mux.HandleFunc("POST /api/v1/guests", s.apiGuestH.Create)
	mux.HandleFunc("POST /api/v1/guests/bulk", s.apiGuestH.BulkCreate)
	mux.HandleFunc("GET /api/v1/guests/export", s.exportH.Guests)
	mux.HandleFunc("GET /api/v1/guests/{id}", s.apiGuestH.Get)
	mux.HandleFunc("PUT /api/v1/guests/{id}", s.apiGuestH.Update)
	mux.HandleFunc("DELETE /api/v1/guests/{id}", s.apiGuestH.Delete)

	// Invitation routes
	mux.HandleFunc("GET /api/v1/events/{id}/invitations", s.apiInvH.ListByEvent)
	mux.HandleFunc("GET /api/v1/events/{id}/available-guests", s.apiInvH.AvailableGuests)
	mux.HandleFunc("POST /api/v1/events/{id}/invitations/bulk", s.apiInvH.BulkAdd)
	mux.HandleFunc("POST /api/v1/events/{id}/invitations/bulk-create", s.apiInvH.BulkCreateAndInvite)
	mux.HandleFunc("PUT /api/v1/invitations/{id}", s.apiInvH.Update)
	mux.HandleFunc("DELETE /api/v1/invitations/{id}", s.apiInvH.Delete)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Event pages
	mux.HandleFunc("GET /{$}", s.eventPageH.Home)
	mux.HandleFunc("POST /event/add", s.eventPageH.Create)
	mux.HandleFunc("GET /event/{id}", s.eventPageH.Detail)
	mux.HandleFunc("POST /event/{id}/edit", s.eventPageH.Update)
	mux.HandleFunc("POST /event/{id}/delete", s.eventPageH.Delete)
	mux.HandleFunc("POST /api/event/{id}/notes", s.eventPageH.Notes)

	// Guest pages
	mux.HandleFunc("GET /guests", s.guestPageH.List)
	mux.HandleFunc("POST /guest/add", s.guestPageH.Create)
	mux.HandleFunc("POST /guest/{id}/edit", s.guestPageH.Update)
	mux.HandleFunc("POST /guest/{id}/delete", s.guestPageH.Delete)
	mux.HandleFunc("POST /api/guest/{id}/name", s.guestPageH.SetName)
	mux.HandleFunc("POST /api/guest/{id}/gender", s.guestPageH.SetGender)
	mux.HandleFunc("POST /api/guest/{id}/notes", s.guestPageH.SetNotes)
	mux.HandleFunc("POST /api/guest/{id}/is-me", s.guestPageH.SetIsMe)
	mux.HandleFunc("POST /api/guests/bulk-create", s.guestPageH.BulkCreate)

	// Invitation row actions
	mux.HandleFunc("POST /invitation/{id}/send", s.invPageH.Send)
	mux.HandleFunc("POST /invitation/{id}/update", s.invPageH.Update)
	mux.HandleFunc("POST /invitation/{id}/delete", s.invPageH.Delete)
	mux.HandleFunc("POST /api/invitation/{id}/field", s.invPageH.SetField)
	mux.HandleFunc("GET /api/event/{id}/available-guests", s.invPageH.AvailableGuests)
	mux.HandleFunc("POST /api/event/{id}/bulk-add", s.invPageH.BulkAdd)
	mux.HandleFunc("POST /api/event/{id}/bulk-create-and-invite", s.invPageH.BulkCreateAndInvite)

	// Exports
	mux.HandleFunc("GET /export/events", s.exportH.Events)
	mux.HandleFunc("GET /export/guests", s.exportH.Guests)
	mux.HandleFunc("GET /export/event/{id}", s.exportH.EventGuests)

	// Settings
	mux.HandleFunc("GET /settings", s.settingsH.Page)
	mux.HandleFunc("POST /settings/load-sample-data", s.settingsH.LoadSampleData)
	mux.HandleFunc("POST /settings/reset-sample-data", s.settingsH.ResetSampleData)

	// Live updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
