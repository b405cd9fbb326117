package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/paywall/internal/access"
	"github.com/dmitrijs2005/paywall/internal/client/client"
	"github.com/dmitrijs2005/paywall/internal/client/repositories/grants"
	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/wire"
)

// ArticleView is an article as one viewer sees it. Body is set only when the
// viewer may read it.
type ArticleView struct {
	Article    *models.Article
	State      access.State
	Indication string
	Body       []byte
}

type ArticleService struct {
	client client.Client
	access *access.Controller
}

func NewArticleService(c client.Client, db *sql.DB) *ArticleService {
	return &ArticleService{
		client: c,
		access: access.NewController(grants.NewSQLiteRepository(db)),
	}
}

func (s *ArticleService) view(ctx context.Context, viewer models.Identity, a *models.Article) (*ArticleView, error) {
	state, err := s.access.Evaluate(ctx, viewer, a)
	if err != nil {
		return nil, err
	}
	return &ArticleView{Article: a, State: state, Indication: state.Indication(a.PriceCents)}, nil
}

// List returns the articles of owner, or all articles for an empty owner,
// classified for viewer. Nothing is decrypted.
func (s *ArticleService) List(ctx context.Context, owner, viewer models.Identity) ([]*ArticleView, error) {
	articles, err := s.client.ListArticles(ctx, owner)
	if err != nil {
		return nil, err
	}
	views := make([]*ArticleView, 0, len(articles))
	for _, a := range articles {
		v, err := s.view(ctx, viewer, a)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Open fetches an article and, if the viewer is its author or holds a grant,
// asks the server to decrypt the body. A locked article is returned without
// a decryption attempt.
func (s *ArticleService) Open(ctx context.Context, id string, viewer models.Identity) (*ArticleView, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty article id", common.ErrInvalidInput)
	}
	a, err := s.client.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, viewer, a)
	if err != nil {
		return nil, err
	}
	if !v.State.CanDecrypt() {
		return v, nil
	}
	body, err := s.client.Read(ctx, &a.Payload)
	if err != nil {
		return nil, err
	}
	v.Body = body
	return v, nil
}

func (s *ArticleService) Get(ctx context.Context, id string) (*models.Article, error) {
	return s.client.GetArticle(ctx, id)
}

// Publish sends a new article to the server. The publisher token must have
// been set on the client.
func (s *ArticleService) Publish(ctx context.Context, req *wire.PublishRequest) (*models.Article, error) {
	if req == nil || req.Title == "" || len(req.Body) == 0 {
		return nil, fmt.Errorf("%w: title and body are required", common.ErrInvalidInput)
	}
	if req.PriceCents < 0 {
		return nil, fmt.Errorf("%w: negative price", common.ErrInvalidAmount)
	}
	return s.client.Publish(ctx, req)
}
