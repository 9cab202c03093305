package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dlretail/sessiongate/config"
	httpx "github.com/dlretail/sessiongate/internal/http"
)

// RunDevServer runs the dev login endpoint until ctx is canceled, then
// shuts down gracefully within the configured timeout.
func RunDevServer(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	handlers := &httpx.LoginHandlers{Users: httpx.DefaultDevUsers(), Logger: logger}
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpx.NewRouter(handlers, logger),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("dev login server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
