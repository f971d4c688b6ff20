// Package cli assembles the histkeeper command-line client: local capture of
// executed commands plus the encrypted sync workflow against the relay
// server.
package cli

import (
	"context"
	"log/slog"
	"os"

	ucli "github.com/urfave/cli/v2"

	"github.com/dmitrijs2005/histkeeper/internal/client/config"
	"github.com/dmitrijs2005/histkeeper/internal/client/remote"
	"github.com/dmitrijs2005/histkeeper/internal/client/repositories"
	"github.com/dmitrijs2005/histkeeper/internal/client/services"
	"github.com/dmitrijs2005/histkeeper/internal/logging"
)

// App carries the wired dependencies shared by all subcommands.
type App struct {
	config *config.Config
	repos  *repositories.Repositories
	remote *remote.Client
	auth   *services.AuthService
	logger logging.Logger
}

// New builds the urfave/cli application. Dependencies are initialized in the
// Before hook so that --config has been parsed by then.
func New() *ucli.App {
	app := &App{}

	return &ucli.App{
		Name:  "histkeeper",
		Usage: "encrypted shell history, synchronized across machines",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to JSON config file"},
			&ucli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "relay server base URL"},
			&ucli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
		},
		Before: app.setup,
		After:  app.teardown,
		Commands: []*ucli.Command{
			app.registerCommand(),
			app.loginCommand(),
			app.logoutCommand(),
			app.keyCommand(),
			app.syncCommand(),
			app.statusCommand(),
			app.historyCommand(),
		},
	}
}

func (a *App) setup(c *ucli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.String("address") != "" {
		cfg.SyncAddress = c.String("address")
	}

	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	repos, err := repositories.InitDatabase(c.Context, cfg.DBPath)
	if err != nil {
		return err
	}

	a.config = cfg
	a.repos = repos
	a.remote = remote.NewClient(cfg.SyncAddress, cfg.Timeout)
	a.auth = services.NewAuthService(a.remote, repos.Metadata, cfg.KeyPath)
	a.logger = logging.NewSlogLogger(slog.New(handler))

	return nil
}

func (a *App) teardown(c *ucli.Context) error {
	if a.repos != nil {
		return a.repos.Close()
	}
	return nil
}

// authedSession loads the stored session token and installs it on the remote
// client.
func (a *App) authedSession(ctx context.Context) error {
	session, err := a.auth.Session(ctx)
	if err != nil {
		return err
	}
	a.remote.SetSession(session)
	return nil
}

// syncService wires a SyncService with the stored key and session.
func (a *App) syncService(ctx context.Context) (*services.SyncService, error) {
	if err := a.authedSession(ctx); err != nil {
		return nil, err
	}
	key, err := a.auth.Key()
	if err != nil {
		return nil, err
	}
	return services.NewSyncService(
		a.remote, a.repos.History, a.repos.Metadata, a.logger,
		key, a.config.Hostname, a.config.PageSize,
	), nil
}
