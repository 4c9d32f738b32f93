package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// User is a person who has logged in through the identity provider.
type User struct {
	ID        string    `db:"id" json:"id"`
	Provider  string    `db:"provider" json:"-"`
	Subject   string    `db:"subject" json:"-"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email,omitempty"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user is a site administrator. Site admins hold
// every permission in every division.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Upsert creates or refreshes the user for a (provider, subject) login.
// When adminEmail is non-empty and matches the email or subject, the user is
// made a site admin; otherwise an existing role is left alone.
//
// The select-then-write avoids ON CONFLICT, which MySQL does not support.
func (s *UserStore) Upsert(ctx context.Context, provider, subject, name, email, adminEmail string) (*User, error) {
	isAdmin := adminEmail != "" && (email == adminEmail || subject == adminEmail)
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var u User
	err = tx.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE provider = ? AND subject = ?`), provider, subject)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		u = User{
			ID:        uuid.New().String(),
			Provider:  provider,
			Subject:   subject,
			Name:      name,
			Email:     email,
			Role:      "user",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if isAdmin {
			u.Role = "admin"
		}
		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO users (id, provider, subject, name, email, role, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`), u.ID, u.Provider, u.Subject, u.Name, u.Email, u.Role, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		u.Name, u.Email, u.UpdatedAt = name, email, now
		if isAdmin {
			u.Role = "admin"
		}
		_, err = tx.ExecContext(ctx, s.q(`
			UPDATE users SET name = ?, email = ?, role = ?, updated_at = ? WHERE id = ?
		`), u.Name, u.Email, u.Role, u.UpdatedAt, u.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user with id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user matching email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListAll returns all users ordered by name.
func (s *UserStore) ListAll(ctx context.Context) ([]*User, error) {
	var users []*User
	if err := s.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY name ASC`); err != nil {
		return nil, err
	}
	return users, nil
}
