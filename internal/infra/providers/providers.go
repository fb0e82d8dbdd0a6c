package providers

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/fabvote/fabvote-gateway/internal/config"
	"github.com/fabvote/fabvote-gateway/internal/infra/cache"
	"github.com/fabvote/fabvote-gateway/internal/infra/database"
	"github.com/fabvote/fabvote-gateway/internal/infra/repository"
	"github.com/fabvote/fabvote-gateway/internal/service"
	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

// Infra is the optional infrastructure enabled by the server config.
type Infra struct {
	LedgerOptions []usecase.LedgerOption
	Signal        *service.SignalService

	rdb *redis.Client
}

// NewInfra connects every backend named in conf. A backend without an
// address stays disabled.
func NewInfra(ctx context.Context, conf config.Server) (*Infra, error) {
	infra := &Infra{}

	if conf.PostgresDsn != "" {
		txlog, err := NewTransactionLog(conf)
		if err != nil {
			return nil, err
		}
		infra.LedgerOptions = append(infra.LedgerOptions, usecase.WithTransactionLog(txlog))
		slog.Info("transaction log enabled", slog.String("module", "providers"))
	}

	if conf.RedisAddr != "" {
		rdb := database.NewRedis(conf.RedisAddr, conf.RedisPassword, conf.RedisDB)
		err := database.PingRedis(ctx, rdb)
		if err != nil {
			rdb.Close()
			return nil, errors.Wrap(err, "failed to connect redis")
		}
		infra.rdb = rdb
		infra.Signal = service.NewSignalService(rdb)
		infra.LedgerOptions = append(infra.LedgerOptions, usecase.WithEventPublisher(infra.Signal))
		slog.Info("event bus enabled", slog.String("addr", conf.RedisAddr), slog.String("module", "providers"))
	}

	queryCache, err := NewQueryCache(conf)
	if err != nil {
		infra.Close()
		return nil, err
	}
	if queryCache != nil {
		infra.LedgerOptions = append(infra.LedgerOptions, usecase.WithQueryCache(queryCache))
		slog.Info("query cache enabled", slog.Duration("ttl", conf.QueryCacheTTL), slog.String("module", "providers"))
	}

	return infra, nil
}

func (i *Infra) Close() {
	if i.rdb != nil {
		i.rdb.Close()
	}
}

// NewTransactionLog opens Postgres and migrates the audit table.
func NewTransactionLog(conf config.Server) (*repository.TransactionLogRepository, error) {
	db, err := database.NewPostgres(conf.PostgresDsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}
	err = database.MigratePostgres(db)
	if err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return repository.NewTransactionLogRepository(db), nil
}

// NewQueryCache returns nil when the TTL is not positive. memcached is
// preferred when an address is configured.
func NewQueryCache(conf config.Server) (usecase.QueryCache, error) {
	if conf.QueryCacheTTL <= 0 {
		return nil, nil
	}
	if conf.MemcachedAddr == "" {
		return cache.NewMemoryQueryCache(conf.QueryCacheTTL), nil
	}
	mc, err := database.NewMemcached(conf.MemcachedAddr)
	if err != nil {
		return nil, err
	}
	return cache.NewMemcachedQueryCache(mc, conf.QueryCacheTTL), nil
}
