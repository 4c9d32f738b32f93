package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/evesrp/evesrp/internal/store"
)

// KeyPrefix starts every API key so leaked keys are easy to recognise.
const KeyPrefix = "srp_"

// APIKey is a row in the api_keys table. The plaintext key is never stored.
type APIKey struct {
	ID         string       `db:"id" json:"id"`
	UserID     string       `db:"user_id" json:"-"`
	Name       string       `db:"name" json:"name"`
	KeyHash    string       `db:"key_hash" json:"-"`
	LastUsedAt sql.NullTime `db:"last_used_at" json:"-"`
	ExpiresAt  sql.NullTime `db:"expires_at" json:"-"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	RevokedAt  sql.NullTime `db:"revoked_at" json:"-"`
}

// Usable reports whether the key is neither revoked nor expired at now.
func (k *APIKey) Usable(now time.Time) bool {
	if k.RevokedAt.Valid {
		return false
	}
	return !k.ExpiresAt.Valid || k.ExpiresAt.Time.After(now)
}

// KeyStore defines API key persistence.
type KeyStore interface {
	Create(ctx context.Context, userID, name, keyHash string, expiresAt *time.Time) (*APIKey, error)
	GetByHash(ctx context.Context, hash string) (*APIKey, error)
	ListByUser(ctx context.Context, userID string) ([]*APIKey, error)
	Revoke(ctx context.Context, id, userID string) error
	UpdateLastUsed(ctx context.Context, id string) error
}

// SQLKeyStore is the sqlx-backed KeyStore.
type SQLKeyStore struct {
	db *sqlx.DB
}

func NewSQLKeyStore(db *sqlx.DB) *SQLKeyStore {
	return &SQLKeyStore{db: db}
}

func (s *SQLKeyStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a key record for an already hashed key.
func (s *SQLKeyStore) Create(ctx context.Context, userID, name, keyHash string, expiresAt *time.Time) (*APIKey, error) {
	k := &APIKey{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		KeyHash:   keyHash,
		CreatedAt: time.Now().UTC(),
	}
	if expiresAt != nil {
		k.ExpiresAt = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO api_keys (id, user_id, name, key_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), k.ID, k.UserID, k.Name, k.KeyHash, k.ExpiresAt, k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// GetByHash returns the key with hash, or store.ErrNotFound.
func (s *SQLKeyStore) GetByHash(ctx context.Context, hash string) (*APIKey, error) {
	var k APIKey
	err := s.db.GetContext(ctx, &k, s.q(`SELECT * FROM api_keys WHERE key_hash = ?`), hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// ListByUser returns a user's unrevoked keys, newest first.
func (s *SQLKeyStore) ListByUser(ctx context.Context, userID string) ([]*APIKey, error) {
	keys := []*APIKey{}
	err := s.db.SelectContext(ctx, &keys, s.q(`
		SELECT * FROM api_keys WHERE user_id = ? AND revoked_at IS NULL ORDER BY created_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Revoke marks a key revoked. It returns store.ErrNotFound when the key does
// not exist, belongs to another user, or is already revoked.
func (s *SQLKeyStore) Revoke(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE api_keys SET revoked_at = ? WHERE id = ? AND user_id = ? AND revoked_at IS NULL
	`), time.Now().UTC(), id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdateLastUsed stamps the key's last_used_at with the current time.
func (s *SQLKeyStore) UpdateLastUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.q(`UPDATE api_keys SET last_used_at = ? WHERE id = ?`), time.Now().UTC(), id)
	return err
}

// GenerateKey creates a new API key. It returns the plaintext, shown to the
// user once, and the hex SHA-256 hash that is stored.
// Plaintext = "srp_" + base62 of 32 random bytes.
func GenerateKey() (plaintext, hash string, err error) {
	b := make([]byte, 32)
	if _, err = rand.Read(b); err != nil {
		return
	}

	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	encoded := make([]byte, 0, 44)
	n := new(big.Int).SetBytes(b)
	base := big.NewInt(62)
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		encoded = append(encoded, alphabet[mod.Int64()])
	}
	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}

	plaintext = KeyPrefix + string(encoded)
	return plaintext, HashKey(plaintext), nil
}

// HashKey returns the hex-encoded SHA-256 of a plaintext key.
func HashKey(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}
