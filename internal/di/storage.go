package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-headless/internal/assets"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Models lists the tables owned by the SQL storage backend.
func Models() []any {
	return []any{
		(*documents.Document)(nil),
		(*assets.HandleRecord)(nil),
	}
}

func storageProvider(cfg runtimeconfig.Config) string {
	provider := strings.ToLower(strings.TrimSpace(cfg.Storage.Provider))
	if provider == "" {
		return "memory"
	}
	return provider
}

// configureStorage opens the configured database, creates missing tables and
// selects the document repository.
func (c *Container) configureStorage() error {
	if c.bunDB == nil {
		db, err := OpenDB(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = db != nil
	}

	if c.bunDB != nil {
		if err := EnsureSchema(context.Background(), c.bunDB); err != nil {
			c.Close()
			return err
		}
	}

	if c.documentRepo != nil {
		return nil
	}
	switch {
	case c.bunDB != nil && c.cacheService != nil:
		c.documentRepo = documents.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	case c.bunDB != nil:
		c.documentRepo = documents.NewBunRepository(c.bunDB)
	default:
		c.documentRepo = documents.NewMemoryRepository()
	}
	return nil
}

// OpenDB opens the SQL database for cfg. Memory storage returns a nil DB.
func OpenDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "memory":
		return nil, nil
	case "sqlite":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, cfg.Provider)
	}
}

// EnsureSchema creates the storage tables when they do not exist.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("di: create table for %T: %w", model, err)
		}
	}
	return nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	return err
}
