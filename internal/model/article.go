package model

import (
	"context"

	"github.com/google/uuid"
)

// Article is a demo resource guarded by the "articles" permissions.
type Article struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// ArticleStore holds demo articles.
type ArticleStore interface {
	List(ctx context.Context) ([]Article, error)
	Get(ctx context.Context, id int64) (Article, error)
	UpdateTitle(ctx context.Context, id int64, title string) (Article, error)
}
