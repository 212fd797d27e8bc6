// Package bunstore implements the option and post-meta stores on PostgreSQL
// using the bun ORM. Tables follow the WordPress layout (wp_options,
// wp_postmeta) so an existing site database can be read in place.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"

	"github.com/goliatone/go-adminsettings/pkg/serialize"
	"github.com/goliatone/go-adminsettings/pkg/store"
)

// Option is a row of the plugin-wide option table.
type Option struct {
	bun.BaseModel `bun:"table:wp_options,alias:o"`

	ID    int64  `bun:"option_id,pk,autoincrement"`
	Name  string `bun:"option_name,unique,notnull"`
	Value string `bun:"option_value,notnull"`
}

// PostMeta is a row of the per-post metadata table.
type PostMeta struct {
	bun.BaseModel `bun:"table:wp_postmeta,alias:pm"`

	ID     int64  `bun:"meta_id,pk,autoincrement"`
	PostID int64  `bun:"post_id,notnull"`
	Key    string `bun:"meta_key,notnull"`
	Value  string `bun:"meta_value"`
}

// Store is a store.Backend persisted in PostgreSQL.
type Store struct {
	db     *bun.DB
	logger *zap.Logger
}

var _ store.Backend = (*Store)(nil)

// Config tunes the connection pool opened by Open.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("bunstore: dsn is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	if logger.Core().Enabled(zap.DebugLevel) {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("close database after failed ping", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("bunstore: ping: %w", err)
	}

	logger.Info("connected to settings database")
	return New(db, logger), nil
}

// New wraps an existing bun.DB.
func New(db *bun.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// DB exposes the underlying connection.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSchema creates the option and post-meta tables when missing.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*Option)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("bunstore: create options table: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*PostMeta)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("bunstore: create postmeta table: %w", err)
	}
	_, err := s.db.NewCreateIndex().
		Model((*PostMeta)(nil)).
		Index("wp_postmeta_post_key_idx").
		Unique().
		IfNotExists().
		Column("post_id", "meta_key").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("bunstore: create postmeta index: %w", err)
	}
	return nil
}

// GetOption returns the option stored under name and whether it is set.
func (s *Store) GetOption(ctx context.Context, name string) (any, bool, error) {
	var row Option
	err := s.selectOption(&row, name).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("bunstore: select option %q: %w", name, err)
	}
	return row.Value, true, nil
}

// SetOption upserts value under name, replacing any previous value.
func (s *Store) SetOption(ctx context.Context, name string, value any) error {
	row := &Option{Name: name, Value: serialize.String(value)}
	if _, err := s.upsertOption(row).Exec(ctx); err != nil {
		return fmt.Errorf("bunstore: upsert option %q: %w", name, err)
	}
	s.logger.Debug("option saved", zap.String("name", name))
	return nil
}

// GetPostMeta returns the meta value stored for postID and key and whether it is set.
func (s *Store) GetPostMeta(ctx context.Context, postID int64, key string) (any, bool, error) {
	var row PostMeta
	err := s.selectPostMeta(&row, postID, key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("bunstore: select post meta %d/%q: %w", postID, key, err)
	}
	return row.Value, true, nil
}

// SetPostMeta upserts value for postID and key, replacing any previous value.
func (s *Store) SetPostMeta(ctx context.Context, postID int64, key string, value any) error {
	row := &PostMeta{PostID: postID, Key: key, Value: serialize.String(value)}
	if _, err := s.upsertPostMeta(row).Exec(ctx); err != nil {
		return fmt.Errorf("bunstore: upsert post meta %d/%q: %w", postID, key, err)
	}
	s.logger.Debug("post meta saved", zap.Int64("post_id", postID), zap.String("key", key))
	return nil
}

func (s *Store) selectOption(row *Option, name string) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(row).
		Where("option_name = ?", name).
		Limit(1)
}

func (s *Store) upsertOption(row *Option) *bun.InsertQuery {
	return s.db.NewInsert().
		Model(row).
		On("CONFLICT (option_name) DO UPDATE").
		Set("option_value = EXCLUDED.option_value")
}

func (s *Store) selectPostMeta(row *PostMeta, postID int64, key string) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(row).
		Where("post_id = ?", postID).
		Where("meta_key = ?", key).
		Limit(1)
}

func (s *Store) upsertPostMeta(row *PostMeta) *bun.InsertQuery {
	return s.db.NewInsert().
		Model(row).
		On("CONFLICT (post_id, meta_key) DO UPDATE").
		Set("meta_value = EXCLUDED.meta_value")
}
