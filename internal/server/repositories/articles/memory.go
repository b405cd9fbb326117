package articles

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/models"
)

// InMemoryRepository is used when no database is configured and in tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	articles map[string]models.Article
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{articles: make(map[string]models.Article)}
}

func (r *InMemoryRepository) Create(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.articles[a.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.articles[a.ID] = *a
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (*models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.articles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *InMemoryRepository) List(_ context.Context, owner models.Identity) ([]*models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Article, 0, len(r.articles))
	for _, a := range r.articles {
		if !owner.IsZero() && a.Owner != owner {
			continue
		}
		a := a
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].PublishedAt.Equal(result[j].PublishedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].PublishedAt.After(result[j].PublishedAt)
	})
	return result, nil
}
