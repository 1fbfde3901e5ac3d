package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/planhub-io/planhub-backend/config"
	"github.com/planhub-io/planhub-backend/internal/layout/repository"
)

const storePingTO = 2 * time.Second

// OpenStore connects the configured persistence backend and verifies it
// is reachable before the server starts taking traffic.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (repository.LayoutStore, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pctx, cancel := context.WithTimeout(ctx, storePingTO)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return repository.NewRedisStore(client), nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}

		pctx, cancel := context.WithTimeout(ctx, storePingTO)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		return repository.NewPostgresStore(db), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
