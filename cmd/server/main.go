package main

import (
	"log/slog"
	"os"

	"github.com/pulseboard/notification-relay/internal/gateway"
	"github.com/pulseboard/notification-relay/internal/gateway/middleware"
	"github.com/pulseboard/notification-relay/internal/modules/notification"
	"github.com/pulseboard/notification-relay/internal/shared/infrastructure/config"
	"github.com/pulseboard/notification-relay/internal/shared/infrastructure/database"
	"github.com/pulseboard/notification-relay/pkg/migration"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Schema is brought current before the first request is served;
	// nothing in the request path initializes state lazily.
	if err := migration.AutoMigrate(cfg.Database.URL(), cfg.Server.MigrationsPath, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	notificationModule := notification.NewModule(db, logger)
	defer notificationModule.Stop()

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		NotificationHandler: notificationModule.HTTPHandler(),
	})

	handler := middleware.CORS(middleware.Prometheus(mux), cfg.Server.AllowedOrigins)

	server := gateway.NewServer(cfg.Server.Port, handler, logger)
	if err := server.Start(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
