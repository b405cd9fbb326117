package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *wire.ArticleServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" && method == wire.PublishMethod {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewPaywallClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = wire.NewArticleServiceClient(conn)
	return nil
}

func (s *GRPCClient) SetPublisherToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) (string, error) {
	resp, err := s.client.Ping(ctx, &wire.PingRequest{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Version, nil
}

func (s *GRPCClient) ListArticles(ctx context.Context, owner models.Identity) ([]*models.Article, error) {
	resp, err := s.client.ListArticles(ctx, &wire.ListArticlesRequest{Owner: owner})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Articles, nil
}

func (s *GRPCClient) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	resp, err := s.client.GetArticle(ctx, &wire.GetArticleRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Article == nil {
		return nil, common.ErrorNotFound
	}
	return resp.Article, nil
}

func (s *GRPCClient) Read(ctx context.Context, p *models.EncryptedPayload) ([]byte, error) {
	resp, err := s.client.Read(ctx, &wire.ReadRequest{Payload: *p})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Plaintext, nil
}

func (s *GRPCClient) Publish(ctx context.Context, req *wire.PublishRequest) (*models.Article, error) {
	if s.token() == "" {
		return nil, common.ErrorUnauthorized
	}
	resp, err := s.client.Publish(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Article, nil
}

func (s *GRPCClient) mapError(err error) error {
	return wire.FromStatus(err)
}
