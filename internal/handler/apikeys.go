package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/store"
)

// APIKeysPage is the template data for the API key settings page.
type APIKeysPage struct {
	BasePage
	Keys   []*auth.APIKey
	NewKey string // plaintext shown once after creation; empty otherwise
	Error  string
}

// APIKeysHandler provides web UI handlers for API key management.
type APIKeysHandler struct {
	flasher
	keys auth.KeyStore
	log  logrus.FieldLogger
}

func NewAPIKeysHandler(f flasher, ks auth.KeyStore, log logrus.FieldLogger) *APIKeysHandler {
	return &APIKeysHandler{flasher: f, keys: ks, log: log}
}

// Index renders the user's active keys.
// GET /apikeys
func (h *APIKeysHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, APIKeysPage{})
}

// Update handles the add and delete actions of the key form.
// POST /apikeys
func (h *APIKeysHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch r.PostForm.Get("action") {
	case "add":
		name := strings.TrimSpace(r.PostForm.Get("name"))
		if name == "" {
			h.renderPage(w, r, APIKeysPage{Error: "Key name is required."})
			return
		}
		var expiresAt *time.Time
		if exp := r.PostForm.Get("expires_in"); exp != "" {
			d, err := time.ParseDuration(exp)
			if err != nil || d <= 0 {
				h.renderPage(w, r, APIKeysPage{Error: "Invalid expiry duration."})
				return
			}
			t := time.Now().Add(d)
			expiresAt = &t
		}

		plaintext, hash, err := auth.GenerateKey()
		if err == nil {
			_, err = h.keys.Create(r.Context(), user.ID, name, hash, expiresAt)
		}
		if err != nil {
			h.log.WithError(err).Error("create API key")
			h.renderPage(w, r, APIKeysPage{Error: "Failed to create key."})
			return
		}
		h.renderPage(w, r, APIKeysPage{NewKey: plaintext})

	case "delete":
		err := h.keys.Revoke(r.Context(), r.PostForm.Get("key_id"), user.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			h.set(r, "error", "No such key.")
		case err != nil:
			h.log.WithError(err).Error("revoke API key")
			h.set(r, "error", "Failed to revoke key.")
		default:
			h.set(r, "success", "Key revoked.")
		}
		http.Redirect(w, r, "/apikeys", http.StatusSeeOther)

	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

func (h *APIKeysHandler) renderPage(w http.ResponseWriter, r *http.Request, data APIKeysPage) {
	user := auth.UserFromContext(r.Context())
	keys, err := h.keys.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.log.WithError(err).Error("list API keys")
		renderError(w, user, http.StatusInternalServerError, "Could not load keys.")
		return
	}
	data.BasePage = h.basePage(r, user, "apikeys")
	data.Keys = keys
	status := http.StatusOK
	if data.Error != "" {
		status = http.StatusBadRequest
	}
	renderStatus(w, status, "apikeys.html", data)
}
