package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/server/services"
	"github.com/dmitrijs2005/paywall/internal/wire"
	"google.golang.org/grpc"
)

type articleSvc interface {
	Publish(ctx context.Context, in services.PublishInput) (*models.Article, error)
	List(ctx context.Context, owner models.Identity) ([]*models.Article, error)
	Get(ctx context.Context, id string) (*models.Article, error)
	Read(ctx context.Context, p *models.EncryptedPayload) ([]byte, error)
}

type GRPCServer struct {
	address   string
	articles  articleSvc
	version   string
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, as articleSvc, version string, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		articles:  as,
		version:   version,
		jwtSecret: []byte(secretKey),
	}
}

// newServer builds the gRPC server with interceptors and the service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	wire.RegisterArticleServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
