// Package grants stores access grants on the reader's device. A grant is
// only ever written after the paying transfer was confirmed.
package grants

import (
	"context"

	"github.com/dmitrijs2005/paywall/internal/models"
)

type Repository interface {
	IsGranted(ctx context.Context, articleID string) (bool, error)
	Get(ctx context.Context, articleID string) (*models.AccessGrant, error)
	Put(ctx context.Context, g *models.AccessGrant) error
	List(ctx context.Context) ([]*models.AccessGrant, error)
}
