package auth_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/store"
	"github.com/evesrp/evesrp/internal/testutil"
)

// mockKeyStore is a KeyStore test double.
type mockKeyStore struct {
	getByHash      func(ctx context.Context, hash string) (*auth.APIKey, error)
	updateLastUsed func(ctx context.Context, id string) error
}

func (m *mockKeyStore) Create(ctx context.Context, userID, name, keyHash string, expiresAt *time.Time) (*auth.APIKey, error) {
	return nil, nil
}

func (m *mockKeyStore) GetByHash(ctx context.Context, hash string) (*auth.APIKey, error) {
	return m.getByHash(ctx, hash)
}

func (m *mockKeyStore) ListByUser(ctx context.Context, userID string) ([]*auth.APIKey, error) {
	return nil, nil
}

func (m *mockKeyStore) Revoke(ctx context.Context, id, userID string) error {
	return nil
}

func (m *mockKeyStore) UpdateLastUsed(ctx context.Context, id string) error {
	if m.updateLastUsed != nil {
		return m.updateLastUsed(ctx, id)
	}
	return nil
}

// whoami echoes the authenticated user's name.
func whoami() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := auth.UserFromContext(r.Context())
		if u == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(u.Name))
	})
}

func TestBearerMiddleware(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	owner, err := us.Upsert(context.Background(), "test", "sub", "Key Owner", "owner@example.com", "")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	plaintext, hash, _ := auth.GenerateKey()
	now := time.Now()
	keys := map[string]*auth.APIKey{
		"valid":   {ID: "k-valid", UserID: owner.ID, KeyHash: hash},
		"revoked": {ID: "k-revoked", UserID: owner.ID, RevokedAt: sql.NullTime{Time: now, Valid: true}},
		"expired": {ID: "k-expired", UserID: owner.ID, ExpiresAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true}},
		"orphan":  {ID: "k-orphan", UserID: "deleted-user"},
	}

	tests := []struct {
		name       string
		header     string
		key        string
		wantStatus int
		wantBody   string
	}{
		{name: "valid key", header: "Bearer " + plaintext, key: "valid", wantStatus: http.StatusOK, wantBody: "Key Owner"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + plaintext, key: "valid", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "unknown key", header: "Bearer srp_nope", wantStatus: http.StatusUnauthorized},
		{name: "revoked key", header: "Bearer " + plaintext, key: "revoked", wantStatus: http.StatusUnauthorized},
		{name: "expired key", header: "Bearer " + plaintext, key: "expired", wantStatus: http.StatusUnauthorized},
		{name: "owner gone", header: "Bearer " + plaintext, key: "orphan", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			used := make(chan string, 1)
			ks := &mockKeyStore{
				getByHash: func(_ context.Context, h string) (*auth.APIKey, error) {
					if k, ok := keys[tt.key]; ok && h == hash {
						return k, nil
					}
					return nil, store.ErrNotFound
				},
				updateLastUsed: func(_ context.Context, id string) error {
					used <- id
					return nil
				},
			}
			log, _ := test.NewNullLogger()
			handler := auth.NewBearerMiddleware(ks, us, log).Authenticate(whoami())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/all/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusOK {
				select {
				case id := <-used:
					if id != "k-valid" {
						t.Errorf("last used updated for %q, want k-valid", id)
					}
				case <-time.After(2 * time.Second):
					t.Error("last_used_at was never updated")
				}
			}
		})
	}
}
