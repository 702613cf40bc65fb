package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/clean-api/internal/database"
	"github.com/deppfellow/clean-api/internal/handler"
	"github.com/deppfellow/clean-api/internal/repository"
	"github.com/deppfellow/clean-api/internal/router"
	"github.com/deppfellow/clean-api/internal/server"
	"github.com/deppfellow/clean-api/internal/service"
	"github.com/spf13/cobra"
)

// DefaultShutdownTimeout is how long in-flight requests get to finish.
const DefaultShutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	var migrate bool
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the background job worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, migrate, shutdownTimeout)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", DefaultShutdownTimeout, "grace period for in-flight requests")

	return cmd
}

func serve(ctx context.Context, migrate bool, shutdownTimeout time.Duration) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	log := rt.log

	if migrate {
		if err := database.Migrate(ctx, &log, rt.cfg); err != nil {
			return err
		}
	}

	srv, err := server.New(rt.cfg, &log, rt.loggerService)
	if err != nil {
		return err
	}

	if err := wireOrRelease(srv); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			_ = srv.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}

// wireOrRelease installs the HTTP stack on srv. On failure it shuts srv down,
// since server.New has already opened the pool, Redis and the job worker.
func wireOrRelease(srv *server.Server) error {
	err := wireHTTP(srv)
	if err == nil {
		return nil
	}

	if shutdownErr := srv.Shutdown(context.Background()); shutdownErr != nil {
		srv.Logger.Error().Err(shutdownErr).Msg("failed to release server resources")
	}
	return err
}

// wireHTTP builds the repositories, services and handlers on srv and installs
// the router.
func wireHTTP(srv *server.Server) error {
	repos, err := repository.NewRepositories(srv)
	if err != nil {
		return err
	}

	services, err := service.NewServices(srv, repos)
	if err != nil {
		return err
	}

	srv.SetupHTTPServer(router.NewRouter(srv, handler.NewHandlers(srv, services)))
	return nil
}
