package client

import (
	"context"

	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/wire"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) (string, error)
	ListArticles(ctx context.Context, owner models.Identity) ([]*models.Article, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	Read(ctx context.Context, p *models.EncryptedPayload) ([]byte, error)
	Publish(ctx context.Context, req *wire.PublishRequest) (*models.Article, error)
	SetPublisherToken(token string)
}
