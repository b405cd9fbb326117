// Package services contains the paywall server's business logic: the
// article catalogue and read endpoint, the license mint action, and license
// metadata publishing.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/cryptox"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/server/repositories/repomanager"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// PublishInput is what a publisher supplies. Owner comes from the
// publisher token, never from the request body.
type PublishInput struct {
	ID             string
	Owner          models.Identity
	Title          string
	PublishedWhere string
	PriceCents     int64
	Body           []byte
}

type ArticleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.ContentCipher
	logger      logging.Logger
	now         func() time.Time
}

func NewArticleService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.ContentCipher, l logging.Logger) *ArticleService {
	return &ArticleService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		logger:      l.With("module", "article_service"),
		now:         time.Now,
	}
}

// Publish encrypts the body and stores a new article. The id is either a
// caller-chosen license asset address or a generated UUID.
func (s *ArticleService) Publish(ctx context.Context, in PublishInput) (*models.Article, error) {
	if in.Owner.IsZero() {
		return nil, common.ErrNoIdentity
	}
	if _, err := solana.PublicKeyFromBase58(in.Owner.String()); err != nil {
		return nil, fmt.Errorf("%w: owner is not a wallet address", common.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	}
	if len(in.Body) == 0 {
		return nil, fmt.Errorf("%w: body is required", common.ErrInvalidInput)
	}
	if !utf8.Valid(in.Body) {
		return nil, fmt.Errorf("%w: body is not UTF-8 text", common.ErrInvalidInput)
	}
	if in.PriceCents < 0 {
		return nil, common.ErrInvalidAmount
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	} else if _, err := solana.PublicKeyFromBase58(id); err != nil {
		return nil, fmt.Errorf("%w: id must be an asset address", common.ErrInvalidInput)
	}

	payload, err := s.cipher.Encrypt(in.Body)
	if err != nil {
		return nil, fmt.Errorf("encrypt body: %w", err)
	}

	article := &models.Article{
		ID:             id,
		Title:          strings.TrimSpace(in.Title),
		PublishedWhere: strings.TrimSpace(in.PublishedWhere),
		PublishedAt:    s.now().UTC().Truncate(time.Microsecond),
		Owner:          in.Owner,
		Payload:        *payload,
		PriceCents:     in.PriceCents,
	}

	if err := s.repomanager.Articles(s.db).Create(ctx, article); err != nil {
		return nil, fmt.Errorf("store article: %w", err)
	}

	s.logger.Info(ctx, "article published", "id", article.ID, "owner", article.Owner.String(), "price_cents", article.PriceCents)
	return article, nil
}

func (s *ArticleService) List(ctx context.Context, owner models.Identity) ([]*models.Article, error) {
	list, err := s.repomanager.Articles(s.db).List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return list, nil
}

func (s *ArticleService) Get(ctx context.Context, id string) (*models.Article, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrInvalidInput)
	}
	a, err := s.repomanager.Articles(s.db).Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}
	return a, nil
}

// Read decrypts a payload. Access was decided by the caller; the endpoint
// only proves the payload was produced with this server's key.
func (s *ArticleService) Read(ctx context.Context, p *models.EncryptedPayload) ([]byte, error) {
	plaintext, err := s.cipher.Decrypt(p)
	if err != nil {
		s.logger.Warn(ctx, "read rejected", "error", err)
		return nil, err
	}
	return plaintext, nil
}
