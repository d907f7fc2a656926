// Package application wires the database pool, export storage and service
// shared by the server and the CLI.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog/entities" // Register built-in entities
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/config"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/core"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/storage"
)

// App holds the long-lived dependencies.
type App struct {
	Config  *config.Config
	Pool    *pgxpool.Pool
	Storage *storage.Disk
	Service *core.Service
}

// PoolConfig applies the database section of cfg to a pgx pool config.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	return poolConfig, nil
}

// Open connects to the database and builds the service.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	poolConfig, err := PoolConfig(cfg.Database)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	slog.Info("connected to database", "name", databaseName(cfg.Database.URL))

	disk := storage.NewDisk(cfg.Export.StorageRoot, cfg.Export.PublicURL)
	service, err := core.NewService(pool, disk, cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create service: %w", err)
	}

	return &App{Config: cfg, Pool: pool, Storage: disk, Service: service}, nil
}

// Close releases the service and the pool.
func (a *App) Close() {
	a.Service.Close()
	a.Pool.Close()
}

func databaseName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
