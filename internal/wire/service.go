package wire

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "paywall.ArticleService"

const (
	PingMethod         = "/" + ServiceName + "/Ping"
	ListArticlesMethod = "/" + ServiceName + "/ListArticles"
	GetArticleMethod   = "/" + ServiceName + "/GetArticle"
	ReadMethod         = "/" + ServiceName + "/Read"
	PublishMethod      = "/" + ServiceName + "/Publish"
)

type ArticleServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	ListArticles(context.Context, *ListArticlesRequest) (*ListArticlesResponse, error)
	GetArticle(context.Context, *GetArticleRequest) (*GetArticleResponse, error)
	Read(context.Context, *ReadRequest) (*ReadResponse, error)
	Publish(context.Context, *PublishRequest) (*PublishResponse, error)
}

func RegisterArticleServiceServer(s grpc.ServiceRegistrar, srv ArticleServiceServer) {
	s.RegisterService(&ArticleServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodDesc.Handler.
func unary[Req any, Resp any](fullMethod string, call func(ArticleServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ArticleServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ArticleServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ArticleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ArticleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(PingMethod, ArticleServiceServer.Ping)},
		{MethodName: "ListArticles", Handler: unary(ListArticlesMethod, ArticleServiceServer.ListArticles)},
		{MethodName: "GetArticle", Handler: unary(GetArticleMethod, ArticleServiceServer.GetArticle)},
		{MethodName: "Read", Handler: unary(ReadMethod, ArticleServiceServer.Read)},
		{MethodName: "Publish", Handler: unary(PublishMethod, ArticleServiceServer.Publish)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "paywall/article_service",
}

// ArticleServiceClient calls the service over a connection that uses CodecName.
type ArticleServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewArticleServiceClient(cc grpc.ClientConnInterface) *ArticleServiceClient {
	return &ArticleServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ArticleServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, PingMethod, in, opts)
}

func (c *ArticleServiceClient) ListArticles(ctx context.Context, in *ListArticlesRequest, opts ...grpc.CallOption) (*ListArticlesResponse, error) {
	return invoke[ListArticlesResponse](ctx, c.cc, ListArticlesMethod, in, opts)
}

func (c *ArticleServiceClient) GetArticle(ctx context.Context, in *GetArticleRequest, opts ...grpc.CallOption) (*GetArticleResponse, error) {
	return invoke[GetArticleResponse](ctx, c.cc, GetArticleMethod, in, opts)
}

func (c *ArticleServiceClient) Read(ctx context.Context, in *ReadRequest, opts ...grpc.CallOption) (*ReadResponse, error) {
	return invoke[ReadResponse](ctx, c.cc, ReadMethod, in, opts)
}

func (c *ArticleServiceClient) Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error) {
	return invoke[PublishResponse](ctx, c.cc, PublishMethod, in, opts)
}
