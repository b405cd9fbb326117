package grpc

import (
	"context"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/server/services"
	"github.com/dmitrijs2005/paywall/internal/wire"
)

func (s *GRPCServer) Ping(ctx context.Context, req *wire.PingRequest) (*wire.PingResponse, error) {
	return &wire.PingResponse{Version: s.version}, nil
}

func (s *GRPCServer) ListArticles(ctx context.Context, req *wire.ListArticlesRequest) (*wire.ListArticlesResponse, error) {
	list, err := s.articles.List(ctx, req.Owner)
	if err != nil {
		s.logger.Error(ctx, "list articles failed", "error", err)
		return nil, wire.ToStatus(err)
	}
	return &wire.ListArticlesResponse{Articles: list}, nil
}

func (s *GRPCServer) GetArticle(ctx context.Context, req *wire.GetArticleRequest) (*wire.GetArticleResponse, error) {
	a, err := s.articles.Get(ctx, req.ID)
	if err != nil {
		return nil, wire.ToStatus(err)
	}
	return &wire.GetArticleResponse{Article: a}, nil
}

func (s *GRPCServer) Read(ctx context.Context, req *wire.ReadRequest) (*wire.ReadResponse, error) {
	plain, err := s.articles.Read(ctx, &req.Payload)
	if err != nil {
		return nil, wire.ToStatus(err)
	}
	return &wire.ReadResponse{Plaintext: plain}, nil
}

func (s *GRPCServer) Publish(ctx context.Context, req *wire.PublishRequest) (*wire.PublishResponse, error) {
	owner := ownerFromContext(ctx)
	if owner.IsZero() {
		return nil, wire.ToStatus(common.ErrorUnauthorized)
	}

	a, err := s.articles.Publish(ctx, services.PublishInput{
		ID:             req.ID,
		Owner:          owner,
		Title:          req.Title,
		PublishedWhere: req.PublishedWhere,
		PriceCents:     req.PriceCents,
		Body:           req.Body,
	})
	if err != nil {
		s.logger.Warn(ctx, "publish failed", "owner", owner.String(), "error", err)
		return nil, wire.ToStatus(err)
	}
	return &wire.PublishResponse{Article: a}, nil
}
