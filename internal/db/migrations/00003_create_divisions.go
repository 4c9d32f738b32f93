package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateDivisions, downCreateDivisions)
}

// Division ids are generated by the database, and each dialect spells an
// auto-incrementing key differently.
func upCreateDivisions(ctx context.Context, tx *sql.Tx) error {
	var id string
	switch dialect {
	case "postgres":
		id = "BIGSERIAL PRIMARY KEY"
	case "mysql":
		id = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	default:
		id = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	ddl := fmt.Sprintf(`CREATE TABLE divisions (
    id         %s,
    name       VARCHAR(128) NOT NULL UNIQUE,
    created_at TIMESTAMP    NOT NULL
)`, id)
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create divisions: %w", err)
	}
	return nil
}

func downCreateDivisions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE divisions`)
	return err
}
