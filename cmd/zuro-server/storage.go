package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/zuro/agenda/internal/config"
	"github.com/zuro/agenda/internal/platform/db"
	"github.com/zuro/agenda/internal/platform/kvstore"
)

// storage is the opened key-value backend plus whatever must be closed with it.
type storage struct {
	kv      kvstore.Store
	pool    *pgxpool.Pool
	closers []func(context.Context) error
}

func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage, error) {
	st := &storage{}
	switch cfg.StorageBackend {
	case config.BackendMemory:
		st.kv = kvstore.NewMemory()

	case config.BackendFile:
		f, err := kvstore.NewFile(afero.NewOsFs(), cfg.StorageDir)
		if err != nil {
			return nil, err
		}
		st.kv = f

	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		count, err := db.NewMigrator(pool, db.Migrations()).Up(ctx, storageSchema)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate storage schema: %w", err)
		}
		logger.Info().Int("applied", count).Msg("storage migrations up to date")
		st.pool = pool
		st.kv = kvstore.NewPostgres(pool)
		st.closers = append(st.closers, func(context.Context) error {
			pool.Close()
			return nil
		})

	case config.BackendMongo:
		database, err := kvstore.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		m := kvstore.NewMongo(database, "")
		st.kv = m
		st.closers = append(st.closers, m.Disconnect)

	case config.BackendS3:
		client, err := kvstore.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		st.kv = kvstore.NewS3(client, cfg.S3Bucket, cfg.S3Prefix)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if err := st.kv.Ping(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("storage %s unreachable: %w", st.kv.Backend(), err)
	}
	logger.Info().Str("backend", st.kv.Backend()).Msg("storage ready")
	return st, nil
}

func (s *storage) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}
