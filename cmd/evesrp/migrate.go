package main

import (
	"github.com/spf13/cobra"

	"github.com/evesrp/evesrp/internal/db"
)

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}
			version, err := db.Version(database, cfg.DB.Driver)
			if err != nil {
				return err
			}
			log.WithField("version", version).Info("migrations complete")
			return nil
		},
	}
}
