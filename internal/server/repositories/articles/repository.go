// Package articles stores published articles. Bodies are stored encrypted;
// this package never sees plaintext.
package articles

import (
	"context"

	"github.com/dmitrijs2005/paywall/internal/models"
)

type Repository interface {
	// Create stores a new article. An existing id yields common.ErrorAlreadyExists.
	Create(ctx context.Context, a *models.Article) error
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.Article, error)
	// List returns articles newest first, optionally filtered by owner.
	List(ctx context.Context, owner models.Identity) ([]*models.Article, error)
}
