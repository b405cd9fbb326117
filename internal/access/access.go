// Package access decides whether a viewer may read an article.
package access

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/paywall/internal/models"
)

type State int

const (
	Locked State = iota
	Unlocked
	Author
)

func (s State) String() string {
	switch s {
	case Author:
		return "AUTHOR"
	case Unlocked:
		return "UNLOCKED"
	default:
		return "LOCKED"
	}
}

// Evaluate classifies a viewer. Authorship wins over a grant, and an empty
// viewer is never the author even if the owner is empty too.
func Evaluate(viewer, owner models.Identity, granted bool) State {
	if !viewer.IsZero() && viewer == owner {
		return Author
	}
	if granted {
		return Unlocked
	}
	return Locked
}

func (s State) CanDecrypt() bool {
	return s == Author || s == Unlocked
}

// Indication is the short label shown next to an article.
func (s State) Indication(priceCents int64) string {
	switch s {
	case Author:
		return "Yours"
	case Unlocked:
		return "Paid"
	default:
		return fmt.Sprintf("Pay $%d.%02d", priceCents/100, priceCents%100)
	}
}

type GrantReader interface {
	IsGranted(ctx context.Context, articleID string) (bool, error)
}

// Controller evaluates access against the grant store, reading it on every
// call so that a grant written by a concurrent payment is seen immediately.
type Controller struct {
	grants GrantReader
}

func NewController(grants GrantReader) *Controller {
	return &Controller{grants: grants}
}

func (c *Controller) Evaluate(ctx context.Context, viewer models.Identity, article *models.Article) (State, error) {
	granted, err := c.grants.IsGranted(ctx, article.ID)
	if err != nil {
		return Locked, fmt.Errorf("read grant: %w", err)
	}
	return Evaluate(viewer, article.Owner, granted), nil
}
