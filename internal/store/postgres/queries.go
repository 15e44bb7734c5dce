package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/florishenkelman/gdpr-tool/internal/model"
	"github.com/florishenkelman/gdpr-tool/internal/store"
)

// articleColumns is the column list used for SELECT statements on the
// cached_articles table.
const articleColumns = `id, article_number, title, content, chapter`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func queryReplaceAll(ctx context.Context, db executor, articles []*model.Article, fetchedAt time.Time) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM cached_articles`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	for _, a := range articles {
		_, err := db.ExecContext(ctx, `
			INSERT INTO cached_articles (
				id, article_number, title, content, chapter, fetched_at
			) VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID,
			a.ArticleNumber,
			a.Title,
			a.Content,
			nullString(a.Chapter),
			fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("insert article %s: %w", a.ID, err)
		}
	}
	return nil
}

func queryGetArticle(ctx context.Context, db executor, id string) (*model.Article, error) {
	row := db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM cached_articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func queryListArticles(ctx context.Context, db executor) ([]*model.Article, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+articleColumns+` FROM cached_articles ORDER BY article_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}

func querySearchArticles(ctx context.Context, db executor, term string) ([]*model.Article, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM cached_articles
		WHERE title ILIKE '%' || $1 || '%' OR content ILIKE '%' || $1 || '%'
		ORDER BY article_number`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}

func queryReplaceSaved(ctx context.Context, db executor, saved []*model.SavedArticle, fetchedAt time.Time) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM saved_articles`); err != nil {
		return fmt.Errorf("clear saved articles: %w", err)
	}
	for _, s := range saved {
		_, err := db.ExecContext(ctx, `
			INSERT INTO saved_articles (
				id, article_id, user_id, saved_at, fetched_at
			) VALUES ($1, $2, $3, $4, $5)`,
			s.ID,
			s.ArticleID,
			s.UserID,
			s.SavedAt,
			fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("insert saved article %s: %w", s.ID, err)
		}
	}
	return nil
}

func queryListSaved(ctx context.Context, db executor) ([]*model.SavedArticle, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT s.id, s.article_id, s.user_id, s.saved_at,
		       a.id, a.article_number, a.title, a.content, a.chapter
		FROM saved_articles s
		LEFT JOIN cached_articles a ON a.id = s.article_id
		ORDER BY s.saved_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []*model.SavedArticle
	for rows.Next() {
		s, err := scanSavedArticle(rows)
		if err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

func queryLastRefreshed(ctx context.Context, db executor) (time.Time, error) {
	var fetchedAt sql.NullTime
	row := db.QueryRowContext(ctx, `SELECT MAX(fetched_at) FROM cached_articles`)
	if err := row.Scan(&fetchedAt); err != nil {
		return time.Time{}, err
	}
	if !fetchedAt.Valid {
		return time.Time{}, nil
	}
	return fetchedAt.Time, nil
}

// scanArticle scans a single row into a model.Article.
// The row must contain columns in the order defined by articleColumns.
func scanArticle(row scannable) (*model.Article, error) {
	var a model.Article
	var chapter sql.NullString

	err := row.Scan(
		&a.ID,
		&a.ArticleNumber,
		&a.Title,
		&a.Content,
		&chapter,
	)
	if err != nil {
		return nil, err
	}

	a.Chapter = chapter.String
	return &a, nil
}

// scanSavedArticle scans a joined saved_articles row. The article columns
// come from a LEFT JOIN and are NULL when the article is not cached; the
// bookmark is still returned then, with a nil Article.
func scanSavedArticle(row scannable) (*model.SavedArticle, error) {
	var s model.SavedArticle
	var articleID, articleNumber, title, content, chapter sql.NullString

	err := row.Scan(
		&s.ID,
		&s.ArticleID,
		&s.UserID,
		&s.SavedAt,
		&articleID,
		&articleNumber,
		&title,
		&content,
		&chapter,
	)
	if err != nil {
		return nil, err
	}

	if articleID.Valid {
		s.Article = &model.Article{
			ID:            articleID.String,
			ArticleNumber: articleNumber.String,
			Title:         title.String,
			Content:       content.String,
			Chapter:       chapter.String,
		}
	}
	return &s, nil
}

func collectArticles(rows *sql.Rows) ([]*model.Article, error) {
	var articles []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
