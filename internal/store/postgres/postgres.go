// Package postgres implements the store.ArticleCache interface backed by
// PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/florishenkelman/gdpr-tool/internal/model"
	"github.com/florishenkelman/gdpr-tool/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// CacheStore implements store.ArticleCache backed by a PostgreSQL database.
type CacheStore struct {
	db *sql.DB
}

// Compile-time check that CacheStore implements store.ArticleCache.
var _ store.ArticleCache = (*CacheStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*CacheStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &CacheStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *CacheStore) Close() error {
	return s.db.Close()
}

// ReplaceAll swaps the cached snapshot inside a single transaction so
// readers never observe a half-written cache.
func (s *CacheStore) ReplaceAll(ctx context.Context, articles []*model.Article, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := queryReplaceAll(ctx, tx, articles, fetchedAt); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *CacheStore) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	return queryGetArticle(ctx, s.db, id)
}

func (s *CacheStore) ListArticles(ctx context.Context) ([]*model.Article, error) {
	return queryListArticles(ctx, s.db)
}

func (s *CacheStore) SearchArticles(ctx context.Context, term string) ([]*model.Article, error) {
	return querySearchArticles(ctx, s.db, term)
}

// ReplaceSaved swaps the cached bookmark snapshot inside a single
// transaction, mirroring ReplaceAll.
func (s *CacheStore) ReplaceSaved(ctx context.Context, saved []*model.SavedArticle, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := queryReplaceSaved(ctx, tx, saved, fetchedAt); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *CacheStore) ListSaved(ctx context.Context) ([]*model.SavedArticle, error) {
	return queryListSaved(ctx, s.db)
}

func (s *CacheStore) LastRefreshed(ctx context.Context) (time.Time, error) {
	return queryLastRefreshed(ctx, s.db)
}
