package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/auth"
	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/config"
	"github.com/MrJamesThe3rd/globetrotter/internal/database"
	apiHttp "github.com/MrJamesThe3rd/globetrotter/internal/http"
	catalogHandler "github.com/MrJamesThe3rd/globetrotter/internal/http/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/http/planner"
	profileHandler "github.com/MrJamesThe3rd/globetrotter/internal/http/profile"
	"github.com/MrJamesThe3rd/globetrotter/internal/importer"
	"github.com/MrJamesThe3rd/globetrotter/internal/profile"
	"github.com/MrJamesThe3rd/globetrotter/internal/store/sqlstore"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		slog.Error("failed to configure auth", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DB.Driver, cfg.DataSource())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	decimal.MarshalJSONWithoutQuotes = true

	// The HTTP API serves many users, so only catalog reads go through the
	// cache. Planner reads hit the store on every request.
	var (
		client = sqlstore.New(db)
		c      = cache.New()
		repos  = trip.NewRepositories(client, c)
	)

	var (
		plannerH = planner.NewHandler(repos, importer.NewService(repos.Expenses))
		catalogH = catalogHandler.NewHandler(catalog.NewCities(client, c), catalog.NewActivities(client, c))
		profileH = profileHandler.NewHandler(profile.NewRepository(client))
	)

	router := apiHttp.New(apiHttp.Options{
		Timeout:        cfg.Server.Timeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, verifier, plannerH, catalogH, profileH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr, "driver", cfg.DB.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
