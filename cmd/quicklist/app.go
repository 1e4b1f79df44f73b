package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"quicklist/internal/config"
	"quicklist/internal/repository"
	"quicklist/internal/repository/postgres"
	"quicklist/internal/repository/sqlite"
)

// app bundles what every command needs: configuration, a logger and an open store.
type app struct {
	cfg    config.Config
	logger *logrus.Logger
	users  repository.UserRepository
	todos  repository.TodoRepository
	// sqlDB is nil when the store is PostgreSQL.
	sqlDB   *sql.DB
	closeFn func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.users = postgres.NewUserRepository(pool)
		a.todos = postgres.NewTodoRepository(pool)
		a.closeFn = pool.Close
		logger.Info("using postgres store")
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.users = sqlite.NewUserRepository(db)
		a.todos = sqlite.NewTodoRepository(db)
		a.sqlDB = db
		a.closeFn = func() { db.Close() }
		logger.Infof("using sqlite store at %s", cfg.Database.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	return a, nil
}

// migrate creates missing tables. Users first: todos reference them.
func (a *app) migrate(ctx context.Context) error {
	if err := a.users.Init(ctx); err != nil {
		return fmt.Errorf("init user repository: %w", err)
	}
	if err := a.todos.Init(ctx); err != nil {
		return fmt.Errorf("init todo repository: %w", err)
	}
	return nil
}

func (a *app) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func newLogger(cfg config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	if strings.EqualFold(cfg.Log.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	return logger, nil
}
