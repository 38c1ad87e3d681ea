package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/gameswap/gameswap/internal/api"
	"github.com/gameswap/gameswap/internal/auth"
	"github.com/gameswap/gameswap/internal/config"
	"github.com/gameswap/gameswap/internal/service"
	"github.com/gameswap/gameswap/internal/storage/sqlite"
	"github.com/gameswap/gameswap/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	guard := auth.NewAdminGuard(cfg.AdminKeyHash)
	if !guard.Enabled() {
		slog.Warn("Admin surface disabled: ADMIN_KEY_HASH not set")
	}

	handler := api.NewRouter(api.Dependencies{
		JWT:     auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration),
		Guard:   guard,
		Catalog: service.NewCatalogService(store),
		Swaps:   service.NewSwapService(store),
		Ratings: service.NewRatingService(store),
		Admin:   service.NewAdminService(store),
	})

	// h2c lets clients speak HTTP/2 without TLS; a TLS-terminating proxy
	// sits in front in deployment.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
