package db

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Drivers lists the accepted values of db.driver.
var Drivers = []string{"sqlite3", "mysql", "postgres"}

// New opens a connection pool for driver and dsn and verifies it with a
// ping. Supported drivers are sqlite3, mysql and postgres.
func New(driver, dsn string) (*sqlx.DB, error) {
	var name string
	switch driver {
	case "sqlite3":
		// modernc.org/sqlite registers itself as "sqlite".
		name = "sqlite"
	case "mysql":
		name = "mysql"
	case "postgres":
		name = "postgres"
	default:
		return nil, fmt.Errorf("unsupported DB driver %q: must be sqlite3, mysql, or postgres", driver)
	}

	conn, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == "sqlite3" {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
		if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	return conn, nil
}
