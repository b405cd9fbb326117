// Package httpapi serves the browser-facing HTTP surface: the public
// catalogue, the read endpoint and the license mint action.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ArticleService interface {
	List(ctx context.Context, owner models.Identity) ([]*models.Article, error)
	Get(ctx context.Context, id string) (*models.Article, error)
	Read(ctx context.Context, p *models.EncryptedPayload) ([]byte, error)
}

type MintService interface {
	Describe() models.ActionDescriptor
	Build(ctx context.Context, account string) (*models.MintResult, error)
}

type Handler struct {
	articles ArticleService
	mint     MintService
	logger   logging.Logger
}

func NewHandler(a ArticleService, m MintService, l logging.Logger) *Handler {
	return &Handler{articles: a, mint: m, logger: l.With("module", "http_api")}
}

// Routes builds the router. Action routes always carry the action CORS
// headers, even without an Origin header, because action clients embed
// them anywhere.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Content-Encoding", "Accept-Encoding"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Group(func(r chi.Router) {
		r.Use(actionHeaders)
		r.Get("/actions.json", h.actionRules)
		r.Get(services.ActionsPath, h.describeAction)
		r.Options(services.ActionsPath, h.describeAction)
		r.Post(services.ActionsPath, h.buildAction)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/read", h.read)
		r.Get("/articles", h.listArticles)
		r.Get("/articles/{id}", h.getArticle)
	})

	return r
}

func actionHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", "*")
		hdr.Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Content-Encoding, Accept-Encoding")
		next.ServeHTTP(w, r)
	})
}

// Server runs the router until ctx is cancelled.
type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewServer(address string, h *Handler, l logging.Logger) *Server {
	return &Server{address: address, handler: h.Routes(), logger: l.With("module", "http_server")}
}

func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
