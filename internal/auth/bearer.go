package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/metrics"
	"github.com/evesrp/evesrp/internal/store"
)

// BearerMiddleware authenticates API requests with an API key in the
// Authorization header. Session cookies are not accepted on the API.
type BearerMiddleware struct {
	keys  KeyStore
	users *store.UserStore
	log   logrus.FieldLogger
}

func NewBearerMiddleware(ks KeyStore, us *store.UserStore, log logrus.FieldLogger) *BearerMiddleware {
	return &BearerMiddleware{keys: ks, users: us, log: log}
}

// Authenticate validates the bearer key and puts its owner on the request
// context. A missing, unknown, revoked or expired key gets a 401.
func (m *BearerMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plaintext, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || plaintext == "" {
			m.reject(w, "missing bearer key")
			return
		}

		key, err := m.keys.GetByHash(r.Context(), HashKey(plaintext))
		if err != nil {
			m.reject(w, "unknown key")
			return
		}
		if !key.Usable(time.Now()) {
			m.reject(w, "revoked or expired key")
			return
		}

		user, err := m.users.GetByID(r.Context(), key.UserID)
		if err != nil {
			m.reject(w, "key owner missing")
			return
		}

		// last_used_at is advisory; the request does not wait for it.
		go func(id string) {
			if err := m.keys.UpdateLastUsed(context.Background(), id); err != nil {
				m.log.WithError(err).WithField("key_id", id).Warn("update key last used")
			}
		}(key.ID)

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (m *BearerMiddleware) reject(w http.ResponseWriter, reason string) {
	metrics.APIKeyAuthFailuresTotal.Inc()
	m.log.WithField("reason", reason).Debug("API authentication failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "code": "UNAUTHORIZED"})
}
