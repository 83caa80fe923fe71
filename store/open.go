package store

import (
	"context"
	"fmt"
	"io"

	"civiceye/config"

	"go.uber.org/zap"
)

// Open builds the backend selected by cfg.Store.Driver. The returned closer
// is a no-op for the memory store.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn("memory_store_selected", zap.String("note", "data is lost on restart"))
		return NewMemory(), nopCloser{}, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(cfg.Store.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.DriverRedis:
		s, err := OpenRedis(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.DriverMongo:
		s, err := OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
