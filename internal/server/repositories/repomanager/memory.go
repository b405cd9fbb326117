package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/paywall/internal/dbx"
	"github.com/dmitrijs2005/paywall/internal/server/repositories/articles"
)

// InMemoryRepositoryManager hands out process-local repositories. The db
// handle passed to its factories is ignored.
type InMemoryRepositoryManager struct {
	articles *articles.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{articles: articles.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Articles(dbx.DBTX) articles.Repository { return m.articles }
