// Package migrations holds the Go migrations whose DDL differs between
// database dialects.
package migrations

// dialect is set by the db package before migrations run.
var dialect string

// SetDialect selects the dialect used by Go migrations. Valid values are
// "sqlite3", "postgres" and "mysql".
func SetDialect(d string) {
	dialect = d
}
