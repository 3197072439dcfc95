package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// ArticleStore is a mock type for the model.ArticleStore type.
type ArticleStore struct {
	mock.Mock
}

func (_m *ArticleStore) List(ctx context.Context) ([]model.Article, error) {
	return get[[]model.Article](_m.Called(ctx))
}

func (_m *ArticleStore) Get(ctx context.Context, id int64) (model.Article, error) {
	return get[model.Article](_m.Called(ctx, id))
}

func (_m *ArticleStore) UpdateTitle(ctx context.Context, id int64, title string) (model.Article, error) {
	return get[model.Article](_m.Called(ctx, id, title))
}

// NewArticleStore creates a new instance of ArticleStore and registers
// expectation assertions on test cleanup.
func NewArticleStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ArticleStore {
	m := &ArticleStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
