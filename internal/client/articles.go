package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/florishenkelman/gdpr-tool/internal/api"
	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// ArticleService wraps the regulation article endpoints. The articles
// themselves are public reference data; only the saved-article bookmarks
// require a session.
type ArticleService struct {
	gw *api.Gateway
}

// List fetches all articles in regulation order.
func (s *ArticleService) List(ctx context.Context) ([]*model.Article, error) {
	var articles []*model.Article
	req := &api.Request{Method: http.MethodGet, Path: "/articles", NoAuth: true}
	if err := s.gw.Do(ctx, req, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Get fetches a single article by ID.
func (s *ArticleService) Get(ctx context.Context, id string) (*model.Article, error) {
	var article model.Article
	req := &api.Request{Method: http.MethodGet, Path: "/articles/" + url.PathEscape(id), NoAuth: true}
	if err := s.gw.Do(ctx, req, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Search queries articles by free text over title and content.
func (s *ArticleService) Search(ctx context.Context, searchTerm string) ([]*model.Article, error) {
	q := url.Values{}
	if searchTerm != "" {
		q.Set("searchTerm", searchTerm)
	}
	var articles []*model.Article
	req := &api.Request{Method: http.MethodGet, Path: "/articles/search", Query: q, NoAuth: true}
	if err := s.gw.Do(ctx, req, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Save bookmarks an article for the current user.
func (s *ArticleService) Save(ctx context.Context, articleID string) (*model.SavedArticle, error) {
	body := map[string]string{"articleId": articleID}
	var saved model.SavedArticle
	req := &api.Request{Method: http.MethodPost, Path: "/saved-articles", Body: body}
	if err := s.gw.Do(ctx, req, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListSaved fetches the current user's bookmarked articles.
func (s *ArticleService) ListSaved(ctx context.Context) ([]*model.SavedArticle, error) {
	var saved []*model.SavedArticle
	if err := s.gw.Do(ctx, &api.Request{Method: http.MethodGet, Path: "/saved-articles"}, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteSaved removes a bookmark.
func (s *ArticleService) DeleteSaved(ctx context.Context, savedID string) error {
	return s.gw.Do(ctx, &api.Request{Method: http.MethodDelete, Path: "/saved-articles/" + url.PathEscape(savedID)}, nil)
}
