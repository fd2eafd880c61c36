package handler

import (
	"crypto/rand"
	"encoding/hex"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/email"
	"github.com/dmaguire/rsvp/internal/middleware"
	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/store"
)

// Verification and reset links stop working after this long.
const authTokenLifetime = 24 * time.Hour

type AuthHandler struct {
	users       *store.UserStore
	sessions    *store.SessionStore
	emailClient *email.Client
	templates   *template.Template
	logger      *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, ec *email.Client, templates *template.Template, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:       us,
		sessions:    ss,
		emailClient: ec,
		templates:   templates,
		logger:      logger,
	}
}

func generateAuthToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sess *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) render(w http.ResponseWriter, name string, data any) {
	renderPage(w, h.templates, h.logger, name, data)
}

// alreadySignedIn sends authenticated visitors of the auth pages home.
func (h *AuthHandler) alreadySignedIn(w http.ResponseWriter, r *http.Request) bool {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	sess, err := h.sessions.GetByToken(cookie.Value)
	if err != nil || sess == nil {
		return false
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return true
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if h.alreadySignedIn(w, r) {
		return
	}
	h.render(w, "signup.html", nil)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h.alreadySignedIn(w, r) {
		return
	}

	emailAddr := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		h.render(w, "signup.html", map[string]any{"Error": "Valid email is required"})
		return
	}
	if len(password) < 6 {
		h.render(w, "signup.html", map[string]any{"Error": "Password must be at least 6 characters"})
		return
	}

	existing, err := h.users.GetByEmail(emailAddr)
	if err != nil {
		h.logger.Error("signup lookup", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		h.render(w, "signup.html", map[string]any{"Error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.users.Create(emailAddr, string(hash))
	if err != nil {
		h.logger.Error("create user", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Verification is best effort: signup succeeds either way, the banner
	// nags until the link is clicked.
	if h.emailClient.Configured() {
		token, err := generateAuthToken()
		if err == nil {
			if err := h.users.SetVerificationToken(user.ID, token, time.Now().UTC()); err == nil {
				if err := h.emailClient.SendVerificationEmail(user.Email, token); err != nil {
					h.logger.Error("send verification email", "error", err)
				}
			}
		}
	} else {
		if err := h.users.MarkEmailVerified(user.ID); err != nil {
			h.logger.Error("mark verified", "error", err)
		}
	}

	sess, err := h.sessions.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.setSessionCookie(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.alreadySignedIn(w, r) {
		return
	}
	h.render(w, "login.html", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.alreadySignedIn(w, r) {
		return
	}

	emailAddr := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	user, err := h.users.GetByEmail(emailAddr)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		h.render(w, "login.html", map[string]any{"Error": "Invalid email or password"})
		return
	}

	sess, err := h.sessions.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.setSessionCookie(w, sess)

	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok && ac.SessionID != 0 {
		if err := h.sessions.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// VerifyEmail consumes the emailed verification link.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByVerificationToken(token)
	if err != nil {
		h.logger.Error("verify lookup", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || user.EmailVerificationSentAt == nil ||
		time.Since(*user.EmailVerificationSentAt) > authTokenLifetime {
		h.render(w, "verify_result.html", map[string]any{"Error": "This verification link is invalid or has expired."})
		return
	}

	if err := h.users.MarkEmailVerified(user.ID); err != nil {
		h.logger.Error("mark verified", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "verify_result.html", map[string]any{"Verified": true})
}

func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "forgot_password.html", nil)
}

// ForgotPassword always renders the same confirmation to avoid confirming
// which emails have accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	emailAddr := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	defer h.render(w, "forgot_password.html", map[string]any{"Sent": true})

	if emailAddr == "" {
		return
	}
	user, err := h.users.GetByEmail(emailAddr)
	if err != nil || user == nil {
		return
	}

	token, err := generateAuthToken()
	if err != nil {
		h.logger.Error("generate reset token", "error", err)
		return
	}
	if err := h.users.SetPasswordResetToken(user.ID, token, time.Now().UTC()); err != nil {
		h.logger.Error("store reset token", "error", err)
		return
	}
	if err := h.emailClient.SendPasswordResetEmail(user.Email, token); err != nil {
		h.logger.Error("send reset email", "error", err)
	}
}

func (h *AuthHandler) resetTokenUser(token string) *model.User {
	if token == "" {
		return nil
	}
	user, err := h.users.GetByPasswordResetToken(token)
	if err != nil || user == nil {
		return nil
	}
	if user.PasswordResetSentAt == nil || time.Since(*user.PasswordResetSentAt) > authTokenLifetime {
		return nil
	}
	return user
}

func (h *AuthHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if h.resetTokenUser(token) == nil {
		h.render(w, "reset_password.html", map[string]any{"Error": "This reset link is invalid or has expired."})
		return
	}
	h.render(w, "reset_password.html", map[string]any{"Token": token})
}

// ResetPassword consumes the reset token and replaces the password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	user := h.resetTokenUser(token)
	if user == nil {
		h.render(w, "reset_password.html", map[string]any{"Error": "This reset link is invalid or has expired."})
		return
	}

	password := r.FormValue("password")
	if len(password) < 6 {
		h.render(w, "reset_password.html", map[string]any{
			"Token": token,
			"Error": "Password must be at least 6 characters",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.users.UpdatePassword(user.ID, string(hash)); err != nil {
		h.logger.Error("update password", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.users.ClearPasswordResetToken(user.ID); err != nil {
		h.logger.Error("clear reset token", "error", err)
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
