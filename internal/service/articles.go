package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/model"
)

// Articles serves the demo resource guarded by scopes.
type Articles struct {
	store model.ArticleStore
}

func NewArticles(store model.ArticleStore) *Articles {
	return &Articles{store: store}
}

// List returns the articles visible under scope: every article for
// ScopeAll, only those owned by userID for ScopeOwn.
func (a *Articles) List(ctx context.Context, scope model.Scope, userID uuid.UUID) ([]model.Article, error) {
	if err := Authorize(scope); err != nil {
		return nil, err
	}

	articles, err := a.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	if scope == model.ScopeAll {
		return articles, nil
	}

	own := make([]model.Article, 0, len(articles))
	for _, article := range articles {
		if article.OwnerID == userID {
			own = append(own, article)
		}
	}
	return own, nil
}

// UpdateTitle renames an article. A blank title leaves it unchanged.
func (a *Articles) UpdateTitle(ctx context.Context, scope model.Scope, userID uuid.UUID, id int64, title string) (model.Article, error) {
	if err := Authorize(scope); err != nil {
		return model.Article{}, err
	}

	article, err := a.store.Get(ctx, id)
	if err != nil {
		return model.Article{}, err
	}
	if err := AuthorizeOwner(scope, article.OwnerID, userID); err != nil {
		return model.Article{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return article, nil
	}
	return a.store.UpdateTitle(ctx, id, title)
}
