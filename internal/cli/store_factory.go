package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/ports"
)

// Backend is a table store plus the lock that serializes updates to it.
type Backend struct {
	Store  ports.TableStore
	Locker ports.DistributedLocker
	io.Closer
}

// OpenBackend builds the store the config selects. Redis is pinged so a wrong
// address fails at startup rather than on the first request.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Kind {
	case config.StoreFile:
		return &Backend{Store: file.NewStore(cfg.Dir), Locker: memory.NewLocker(), Closer: nopCloser{}}, nil

	case config.StoreRedis:
		opts := []redis.Option{redis.WithPrefix(cfg.Prefix)}
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return &Backend{Store: store, Locker: redis.NewLocker(store.Client(), cfg.Prefix), Closer: store}, nil

	case config.StoreMemory, "":
		return &Backend{Store: memory.NewStore(), Locker: memory.NewLocker(), Closer: nopCloser{}}, nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}
