package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/store"
	"github.com/evesrp/evesrp/internal/testutil"
)

func newKeyTestEnv(t *testing.T) (*auth.SQLKeyStore, *store.UserStore, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ks := auth.NewSQLKeyStore(db)
	us := store.NewUserStore(db)

	u, err := us.Upsert(context.Background(), "test", "sub1", "Test User", "test@example.com", "")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return ks, us, u.ID
}

func TestGenerateKey(t *testing.T) {
	plaintext, hash, err := auth.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if !strings.HasPrefix(plaintext, auth.KeyPrefix) {
		t.Errorf("plaintext %q lacks prefix %q", plaintext, auth.KeyPrefix)
	}
	if len(plaintext) < 40 {
		t.Errorf("plaintext too short: %q", plaintext)
	}
	if got := auth.HashKey(plaintext); got != hash {
		t.Errorf("HashKey = %q, want %q", got, hash)
	}

	other, _, err := auth.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if other == plaintext {
		t.Error("two generated keys are equal")
	}
}

func TestKeyStore_CreateAndGetByHash(t *testing.T) {
	ks, _, userID := newKeyTestEnv(t)
	ctx := context.Background()

	_, hash, _ := auth.GenerateKey()
	k, err := ks.Create(ctx, userID, "killboard sync", hash, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := ks.GetByHash(ctx, hash)
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if got.ID != k.ID || got.Name != "killboard sync" || got.UserID != userID {
		t.Errorf("GetByHash = %+v, want key %s", got, k.ID)
	}
	if got.LastUsedAt.Valid || got.RevokedAt.Valid {
		t.Error("new key has last_used_at or revoked_at set")
	}

	if _, err := ks.GetByHash(ctx, "nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByHash(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestKeyStore_RevokeHidesFromList(t *testing.T) {
	ks, _, userID := newKeyTestEnv(t)
	ctx := context.Background()

	_, h1, _ := auth.GenerateKey()
	_, h2, _ := auth.GenerateKey()
	keep, err := ks.Create(ctx, userID, "keep", h1, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	drop, err := ks.Create(ctx, userID, "drop", h2, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := ks.Revoke(ctx, drop.ID, "someone-else"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Revoke by non-owner = %v, want ErrNotFound", err)
	}
	if err := ks.Revoke(ctx, drop.ID, userID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := ks.Revoke(ctx, drop.ID, userID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Revoke = %v, want ErrNotFound", err)
	}

	keys, err := ks.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(keys) != 1 || keys[0].ID != keep.ID {
		t.Errorf("ListByUser = %v, want only %s", keys, keep.ID)
	}

	revoked, err := ks.GetByHash(ctx, h2)
	if err != nil {
		t.Fatalf("GetByHash revoked: %v", err)
	}
	if revoked.Usable(time.Now()) {
		t.Error("revoked key reported usable")
	}
}

func TestKeyStore_UpdateLastUsed(t *testing.T) {
	ks, _, userID := newKeyTestEnv(t)
	ctx := context.Background()

	_, hash, _ := auth.GenerateKey()
	k, err := ks.Create(ctx, userID, "usage", hash, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ks.UpdateLastUsed(ctx, k.ID); err != nil {
		t.Fatalf("UpdateLastUsed: %v", err)
	}
	got, err := ks.GetByHash(ctx, hash)
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if !got.LastUsedAt.Valid {
		t.Error("last_used_at not set")
	}
}

func TestAPIKey_Usable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	ks, _, userID := newKeyTestEnv(t)
	ctx := context.Background()
	tests := []struct {
		name    string
		expires *time.Time
		want    bool
	}{
		{"no expiry", nil, true},
		{"expired", &past, false},
		{"not yet expired", &future, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, hash, _ := auth.GenerateKey()
			if _, err := ks.Create(ctx, userID, tt.name, hash, tt.expires); err != nil {
				t.Fatalf("Create: %v", err)
			}
			got, err := ks.GetByHash(ctx, hash)
			if err != nil {
				t.Fatalf("GetByHash: %v", err)
			}
			if got.Usable(now) != tt.want {
				t.Errorf("Usable = %v, want %v", got.Usable(now), tt.want)
			}
		})
	}
}
