package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/paywall/internal/dbx"
	"github.com/dmitrijs2005/paywall/internal/server/repositories/articles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Articles(db dbx.DBTX) articles.Repository
}
