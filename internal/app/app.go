package app

import (
	"log/slog"
	"net/http"

	"github.com/RRPsystem/wbctx/internal/config"
	"github.com/RRPsystem/wbctx/internal/database"
	"github.com/RRPsystem/wbctx/internal/service"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Server  *http.Server
	Janitor *service.Janitor
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, janitor *service.Janitor) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Janitor: janitor}
}

// RunMigrationOnly applies schema migrations and exits; used by the
// `migrate` subcommand in deploy pipelines.
func RunMigrationOnly() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	return database.Migrate(db)
}
