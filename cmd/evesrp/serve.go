package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/build"
	"github.com/evesrp/evesrp/internal/cache"
	"github.com/evesrp/evesrp/internal/db"
	"github.com/evesrp/evesrp/internal/handler"
	"github.com/evesrp/evesrp/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateOIDC(); err != nil {
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

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			provider, err := auth.NewProvider(ctx, cfg)
			if err != nil {
				return err
			}
			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, cfg.InsecureCookies)

			userStore := store.NewUserStore(database)
			divisionStore := store.NewDivisionStore(database)
			requestStore := store.NewRequestStore(database, divisionStore)
			keyStore := auth.NewSQLKeyStore(database)

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				AuthHandlers:   auth.NewHandlers(provider, sessionManager, userStore, cfg.AdminEmail, cfg.InsecureCookies, log),
				AuthMiddleware: auth.NewMiddleware(sessionManager, userStore),
				Users:          userStore,
				Divisions:      divisionStore,
				Requests:       requestStore,
				Keys:           keyStore,
				Choices:        cache.NewChoices(requestStore, cfg.Cache.SizeMB, cfg.Cache.TTL, log),
				Log:            log,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				log.WithField("addr", cfg.HTTP.Addr).WithField("build", build.String()).Info("listening")
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
