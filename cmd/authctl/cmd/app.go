package cmd

import (
	"context"
	"io"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/goliatone/go-auth-rbac/config"
	"github.com/goliatone/go-auth-rbac/repository"
)

// app is the wired core for a single command invocation
type app struct {
	cfg     *config.Config
	repos   *repository.Manager
	service *auth.Service
	logger  auth.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	logger := auth.NewTextLogger(logOut, cfg.Logging.Level)

	repos, err := repository.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenServiceFromConfig(cfg, auth.WithTokenLogger(logger))
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	accounts := auth.NewAccountRegistry(repos.Users(), nil).WithLogger(logger)

	engine := auth.NewPermissionEngine(nil,
		auth.WithGrantStore(repos.Grants()),
		auth.WithPermissionLogger(logger),
	)
	if err := engine.Load(ctx); err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		repos:   repos,
		service: auth.NewService(accounts, tokens, engine).WithLogger(logger),
		logger:  logger,
	}, nil
}

func (a *app) Close() error {
	return a.repos.Close()
}
