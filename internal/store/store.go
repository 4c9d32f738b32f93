// Package store is the persistence layer. Handlers never query the database
// directly; every read and write goes through one of the stores here.
package store

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the acting user lacks the permission an
	// operation needs.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned when a request cannot move from its
	// current status to the requested one.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidFilter is returned when a filter names a value the store
	// cannot match against, such as an unknown status.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidPermission is returned for a permission name outside
	// submit, review, pay and admin.
	ErrInvalidPermission = errors.New("permission must be one of: submit, review, pay, admin")

	// ErrDuplicate is returned when a unique row already exists.
	ErrDuplicate = errors.New("already exists")
)

// isUniqueConstraintError checks whether err indicates a unique constraint
// violation on SQLite, PostgreSQL or MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	// modernc.org/sqlite reports constraint failures by message.
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

const (
	pqUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)
