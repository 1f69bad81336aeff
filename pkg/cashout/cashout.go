// Package cashout wires the pow3r.cashout dashboard: storage, the New Post
// Flow wizard, the JSON API and the web UI behind one HTTP handler.
package cashout

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/controllers"
	"github.com/pow3r/cashout/internal/repository"
	"github.com/pow3r/cashout/internal/web"
	"github.com/pow3r/cashout/internal/wizard"
	"github.com/pow3r/cashout/pkg/cashout/core"
)

const shutdownTimeout = 10 * time.Second

// NewHandler registers every API and web route on mux, backed by db, and
// wraps it with CORS and request logging. A nil mux gets a fresh one.
func NewHandler(db *sql.DB, mux *http.ServeMux) http.Handler {
	if mux == nil {
		mux = http.NewServeMux()
	}
	version := config.GetSystemSettingString(config.VERSION)

	manager := wizard.NewManager(
		repository.NewPostFlowRepository(db),
		repository.NewFlowActionRepository(db),
		repository.NewGarageRepository(db),
		core.NewRealClock(),
	)

	controllers.NewHealthController(version).RegisterRoutes(mux)
	controllers.NewCatalogController().RegisterRoutes(mux)
	controllers.NewPostFlowsController(manager).RegisterRoutes(mux)
	controllers.NewGarageController(manager).RegisterRoutes(mux)
	web.NewWebController(manager, version).RegisterRoutes(mux)

	origin := config.GetSystemSettingString(config.CORS_ALLOWED_ORIGIN)
	return controllers.WithRequestLogging(controllers.WithCORS(origin, mux))
}

// Start opens the configured database and serves HTTP until ctx is
// cancelled, then shuts the server down gracefully.
func Start(ctx context.Context, mux *http.ServeMux) error {
	db, err := repository.OpenDatabase()
	if err != nil {
		slog.Error("Database setup failed", "error", err)
		return err
	}
	defer db.Close()

	addr := ":" + config.GetSystemSettingString(config.SERVER_WEB_PORT)
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		addr = v
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(db, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		slog.Error("HTTP server failed", "error", err)
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	return nil
}

func SetupLogger() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel(config.GetSystemSettingString(config.LOG_LEVEL)),
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

func logLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}
