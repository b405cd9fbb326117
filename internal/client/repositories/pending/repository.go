// Package pending stores payments that were submitted but not yet seen
// confirmed or failed on the ledger.
package pending

import (
	"context"

	"github.com/dmitrijs2005/paywall/internal/models"
)

type Repository interface {
	Get(ctx context.Context, articleID string) (*models.PendingPayment, error)
	Put(ctx context.Context, p *models.PendingPayment) error
	Delete(ctx context.Context, articleID string) error
	List(ctx context.Context) ([]*models.PendingPayment, error)
}
