package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/store"
)

const (
	cookieState        = "__srp_state"
	cookieCodeVerifier = "__srp_pkce"
	cookieRedirect     = "__srp_redirect"

	// DefaultLanding is where a login without a redirect target ends up.
	DefaultLanding = "/requests/personal/"
)

// Handlers provides HTTP handlers for the SSO login flow.
type Handlers struct {
	provider   *Provider
	sessions   *scs.SessionManager
	users      *store.UserStore
	adminEmail string
	insecure   bool
	log        logrus.FieldLogger
}

// NewHandlers creates Handlers. insecure drops the Secure flag from the
// short-lived login cookies for plain-HTTP development setups.
func NewHandlers(p *Provider, sm *scs.SessionManager, us *store.UserStore, adminEmail string, insecure bool, log logrus.FieldLogger) *Handlers {
	return &Handlers{provider: p, sessions: sm, users: us, adminEmail: adminEmail, insecure: insecure, log: log}
}

// Login starts the authorization code flow with PKCE.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := GenerateState()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	verifier, challenge, err := GeneratePKCE()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.setPreAuthCookie(w, cookieState, state)
	h.setPreAuthCookie(w, cookieCodeVerifier, verifier)
	h.setPreAuthCookie(w, cookieRedirect, SafeRedirect(r.URL.Query().Get("redirect")))

	http.Redirect(w, r, h.provider.AuthCodeURL(state, challenge), http.StatusFound)
}

// Callback completes the login when the SSO redirects back.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(cookieState)
	if err != nil || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	verifierCookie, err := r.Cookie(cookieCodeVerifier)
	if err != nil {
		http.Error(w, "missing code verifier", http.StatusBadRequest)
		return
	}

	claims, err := h.provider.Exchange(r.Context(), r.URL.Query().Get("code"), verifierCookie.Value)
	if err != nil {
		h.log.WithError(err).Warn("SSO exchange failed")
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	user, err := h.users.Upsert(r.Context(), claims.Issuer, claims.Subject, claims.Name, claims.Email, h.adminEmail)
	if err != nil {
		h.log.WithError(err).Error("upsert user")
		http.Error(w, "user record error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	h.sessions.Put(r.Context(), SessionUserIDKey, user.ID)
	h.log.WithFields(logrus.Fields{"user_id": user.ID, "name": user.Name}).Info("login")

	clearCookie(w, cookieState)
	clearCookie(w, cookieCodeVerifier)

	redirect := DefaultLanding
	if c, err := r.Cookie(cookieRedirect); err == nil {
		redirect = SafeRedirect(c.Value)
	}
	clearCookie(w, cookieRedirect)

	http.Redirect(w, r, redirect, http.StatusFound)
}

// Logout destroys the session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		http.Error(w, "logout error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// SafeRedirect returns target if it is a local absolute path, otherwise
// DefaultLanding.
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return DefaultLanding
	}
	return target
}

func (h *Handlers) setPreAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   !h.insecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}
