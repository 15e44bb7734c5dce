// Package store defines the persistence interface for the offline article
// cache. Regulation articles change rarely, so the tool keeps a local copy
// for browsing and search when the server is unreachable.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// ErrNotFound is returned when a requested article is not in the cache.
var ErrNotFound = errors.New("article not found in cache")

// ArticleCache is the persistence interface for cached regulation articles.
type ArticleCache interface {
	// ReplaceAll swaps the cache contents for a fresh snapshot in one
	// transaction.
	ReplaceAll(ctx context.Context, articles []*model.Article, fetchedAt time.Time) error

	GetArticle(ctx context.Context, id string) (*model.Article, error)
	ListArticles(ctx context.Context) ([]*model.Article, error)
	SearchArticles(ctx context.Context, term string) ([]*model.Article, error)

	// ReplaceSaved swaps the cached bookmark list for a fresh snapshot in
	// one transaction.
	ReplaceSaved(ctx context.Context, saved []*model.SavedArticle, fetchedAt time.Time) error

	// ListSaved returns the cached bookmarks, each joined with its article
	// when that article is cached too.
	ListSaved(ctx context.Context) ([]*model.SavedArticle, error)

	// LastRefreshed reports when the snapshot was taken; the zero time
	// means the cache is empty.
	LastRefreshed(ctx context.Context) (time.Time, error)

	// Lifecycle
	Close() error
}
