package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/model"
)

var _ model.ArticleStore = (*ArticleRepository)(nil)

// ArticleRepository keeps demo articles in memory.
type ArticleRepository struct {
	mu       sync.RWMutex
	articles map[int64]model.Article
}

// NewArticleRepository creates a repository holding a copy of articles.
func NewArticleRepository(articles []model.Article) *ArticleRepository {
	byID := make(map[int64]model.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	return &ArticleRepository{articles: byID}
}

// DemoArticles returns the fixture served by the demo endpoints. The first
// article belongs to owner; the others belong to unrelated users.
func DemoArticles(owner uuid.UUID) []model.Article {
	return []model.Article{
		{ID: 1, Title: "My note", OwnerID: owner},
		{ID: 2, Title: "Team doc", OwnerID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("demo-owner-999"))},
		{ID: 3, Title: "Public post", OwnerID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("demo-owner-42"))},
	}
}

func (r *ArticleRepository) List(_ context.Context) ([]model.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Article, 0, len(r.articles))
	for _, a := range r.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ArticleRepository) Get(_ context.Context, id int64) (model.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.articles[id]
	if !ok {
		return model.Article{}, model.ErrNotFound
	}
	return a, nil
}

func (r *ArticleRepository) UpdateTitle(_ context.Context, id int64, title string) (model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.articles[id]
	if !ok {
		return model.Article{}, model.ErrNotFound
	}
	a.Title = title
	r.articles[id] = a
	return a, nil
}
