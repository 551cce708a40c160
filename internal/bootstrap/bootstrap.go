// Package bootstrap opens the backing stores and builds the root gateway client
// shared by the server and the CLI.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/auth"
	"github.com/hongminglow/club-finder/internal/config"
	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/storage"
	"github.com/hongminglow/club-finder/internal/storage/postgres"
	"github.com/hongminglow/club-finder/internal/storage/redis"
)

// Deps are the opened resources. Close releases them.
type Deps struct {
	Client  *gateway.Client
	closers []func()
}

// Close releases every opened resource in reverse order.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// Open connects to Postgres, optionally to redis, and builds the root client.
// Without REDIS_URL revoked tokens are kept in Postgres.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*Deps, error) {
	deps := &Deps{}

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	deps.closers = append(deps.closers, store.Close)

	var revocations storage.Revocations = store
	if cfg.RedisURL != "" {
		denylist, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		deps.closers = append(deps.closers, func() {
			if err := denylist.Close(); err != nil {
				log.Warn("close redis", zap.Error(err))
			}
		})
		revocations = denylist
		log.Info("token denylist backed by redis")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	deps.Client = gateway.New(store, tokens, revocations, log.Named("gateway"))
	return deps, nil
}
