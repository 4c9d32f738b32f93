package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Division groups requests and the users allowed to act on them.
type Division struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Grantee is a user holding a permission in a division.
type Grantee struct {
	User
	Permission Permission `db:"permission" json:"permission"`
}

type DivisionStore struct {
	db *sqlx.DB
}

func NewDivisionStore(db *sqlx.DB) *DivisionStore {
	return &DivisionStore{db: db}
}

func (s *DivisionStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a division and returns it with its generated id. A taken
// name yields ErrDuplicate.
func (s *DivisionStore) Create(ctx context.Context, name string) (*Division, error) {
	d := &Division{Name: name, CreatedAt: time.Now().UTC()}

	var err error
	if s.db.DriverName() == "postgres" {
		err = s.db.QueryRowxContext(ctx,
			s.q(`INSERT INTO divisions (name, created_at) VALUES (?, ?) RETURNING id`),
			d.Name, d.CreatedAt,
		).Scan(&d.ID)
	} else {
		var res sql.Result
		res, err = s.db.ExecContext(ctx,
			s.q(`INSERT INTO divisions (name, created_at) VALUES (?, ?)`), d.Name, d.CreatedAt)
		if err == nil {
			d.ID, err = res.LastInsertId()
		}
	}
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("division %q: %w", name, ErrDuplicate)
		}
		return nil, err
	}
	return d, nil
}

// Get returns the division with id, or ErrNotFound.
func (s *DivisionStore) Get(ctx context.Context, id int64) (*Division, error) {
	var d Division
	err := s.db.GetContext(ctx, &d, s.q(`SELECT * FROM divisions WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns every division ordered by name.
func (s *DivisionStore) List(ctx context.Context) ([]*Division, error) {
	var out []*Division
	if err := s.db.SelectContext(ctx, &out, `SELECT * FROM divisions ORDER BY name ASC`); err != nil {
		return nil, err
	}
	return out, nil
}

// ForUser returns the divisions visible to u: all of them for site admins,
// otherwise those where u holds any permission.
func (s *DivisionStore) ForUser(ctx context.Context, u *User) ([]*Division, error) {
	if u.IsAdmin() {
		return s.List(ctx)
	}
	var out []*Division
	err := s.db.SelectContext(ctx, &out, s.q(`
		SELECT DISTINCT d.* FROM divisions d
		INNER JOIN permissions p ON p.division_id = d.id
		WHERE p.user_id = ?
		ORDER BY d.name ASC
	`), u.ID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Grant gives userID perm in divisionID. Granting a held permission yields
// ErrDuplicate.
func (s *DivisionStore) Grant(ctx context.Context, divisionID int64, userID string, perm Permission) error {
	if _, err := ParsePermission(string(perm)); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO permissions (division_id, user_id, permission, created_at) VALUES (?, ?, ?, ?)
	`), divisionID, userID, string(perm), time.Now().UTC())
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%s permission: %w", perm, ErrDuplicate)
	}
	return err
}

// Revoke removes perm from userID in divisionID, or returns ErrNotFound when
// it was not held.
func (s *DivisionStore) Revoke(ctx context.Context, divisionID int64, userID string, perm Permission) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM permissions WHERE division_id = ? AND user_id = ? AND permission = ?
	`), divisionID, userID, string(perm))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Entities returns the users holding each permission in divisionID. Every
// permission has an entry, possibly empty.
func (s *DivisionStore) Entities(ctx context.Context, divisionID int64) (map[Permission][]*Grantee, error) {
	var rows []*Grantee
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT u.*, p.permission FROM users u
		INNER JOIN permissions p ON p.user_id = u.id
		WHERE p.division_id = ?
		ORDER BY u.name ASC
	`), divisionID)
	if err != nil {
		return nil, err
	}
	out := make(map[Permission][]*Grantee, len(Permissions))
	for _, p := range Permissions {
		out[p] = []*Grantee{}
	}
	for _, g := range rows {
		out[g.Permission] = append(out[g.Permission], g)
	}
	return out, nil
}

// HasPermission reports whether u holds any of perms in divisionID. Site
// admins always do.
func (s *DivisionStore) HasPermission(ctx context.Context, u *User, divisionID int64, perms ...Permission) (bool, error) {
	if u.IsAdmin() {
		return true, nil
	}
	if len(perms) == 0 {
		return false, nil
	}
	query, args, err := sqlx.In(`
		SELECT COUNT(*) FROM permissions WHERE user_id = ? AND division_id = ? AND permission IN (?)
	`, u.ID, divisionID, permStrings(perms))
	if err != nil {
		return false, err
	}
	var n int
	if err := s.db.GetContext(ctx, &n, s.q(query), args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DivisionIDsWith returns the ids of divisions where u holds any of perms.
// Site admins get every division.
func (s *DivisionStore) DivisionIDsWith(ctx context.Context, u *User, perms ...Permission) ([]int64, error) {
	var ids []int64
	if u.IsAdmin() {
		err := s.db.SelectContext(ctx, &ids, `SELECT id FROM divisions ORDER BY id`)
		return ids, err
	}
	if len(perms) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT DISTINCT division_id FROM permissions WHERE user_id = ? AND permission IN (?) ORDER BY division_id
	`, u.ID, permStrings(perms))
	if err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &ids, s.q(query), args...); err != nil {
		return nil, err
	}
	return ids, nil
}

func permStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
