package model

import "time"

// Article is a GDPR article served as read-only reference data.
type Article struct {
	ID            string `json:"id"`
	ArticleNumber string `json:"articleNumber"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Chapter       string `json:"chapter,omitempty"`
}

// SavedArticle links a user to an article they bookmarked.
type SavedArticle struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	UserID    string    `json:"userId"`
	SavedAt   time.Time `json:"savedAt"`

	// Populated by the server on list responses.
	Article *Article `json:"article,omitempty"`
}
