package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/store"
)

const SessionCookieName = "rsvp_session"

// RequireAuth validates the session cookie and populates AuthContext,
// redirecting to the login page when the session is missing or expired.
func RequireAuth(sessions *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loginURL := "/login"
			if r.Method == http.MethodGet && r.URL.Path != "/" {
				loginURL = "/login?next=" + url.QueryEscape(r.URL.Path)
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			ac := auth.AuthContext{
				UserID:    sess.UserID,
				SessionID: sess.ID,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

// RequireAPIAuth authenticates JSON API requests by bearer token, falling
// back to the session cookie so the browser UI can call the API directly.
// Failures get the API error envelope, never a redirect.
func RequireAPIAuth(users *store.UserStore, sessions *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); header != "" {
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok || token == "" {
					apiUnauthorized(w, "Invalid authorization header", "AUTH_ERROR")
					return
				}
				user, err := users.GetByAPIToken(token)
				if err != nil {
					apiUnauthorized(w, "Authentication failed", "AUTH_ERROR")
					return
				}
				if user == nil {
					apiUnauthorized(w, "Invalid or expired token", "INVALID_TOKEN")
					return
				}
				ac := auth.AuthContext{UserID: user.ID}
				next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
				return
			}

			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				sess, err := sessions.GetByToken(cookie.Value)
				if err == nil && sess != nil {
					ac := auth.AuthContext{UserID: sess.UserID, SessionID: sess.ID}
					next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
					return
				}
			}

			apiUnauthorized(w, "Authentication required", "AUTH_REQUIRED")
		})
	}
}

func apiUnauthorized(w http.ResponseWriter, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
		"code":    code,
	})
}
