package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/config"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/db"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/migrate"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/registry"
)

// Open wires the workspace together: config, migrated database, registry
// client and engine. Callers own the returned database handle.
func Open(workspace string) (engine.Engine, *sql.DB, *config.Config, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return engine.Engine{}, nil, nil, err
	}
	database, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return engine.Engine{}, nil, nil, err
	}
	if err := migrate.Migrate(database); err != nil {
		database.Close()
		return engine.Engine{}, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	eng := engine.New(database, cfg, BuildRegistry(cfg))
	return eng, database, cfg, nil
}

// BuildRegistry constructs the HTTP registry client with the configured cache
// bounds.
func BuildRegistry(cfg *config.Config) registry.Client {
	client := registry.NewHTTPClient(cfg.Registry.Token)
	if cfg.Registry.CacheSize > 0 || cfg.Registry.CacheTTLMinutes > 0 {
		size := cfg.Registry.CacheSize
		if size <= 0 {
			size = 512
		}
		ttl := time.Duration(cfg.Registry.CacheTTLMinutes) * time.Minute
		if ttl <= 0 {
			ttl = 15 * time.Minute
		}
		client = registry.NewHTTPClientWithCache(cfg.Registry.Token, size, ttl)
	}
	return client
}
