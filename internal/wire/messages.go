package wire

import "github.com/dmitrijs2005/paywall/internal/models"

type PingRequest struct{}

type PingResponse struct {
	Version string `json:"version"`
}

type ListArticlesRequest struct {
	Owner models.Identity `json:"owner,omitempty"`
}

type ListArticlesResponse struct {
	Articles []*models.Article `json:"articles"`
}

type GetArticleRequest struct {
	ID string `json:"id"`
}

type GetArticleResponse struct {
	Article *models.Article `json:"article"`
}

type ReadRequest struct {
	Payload models.EncryptedPayload `json:"payload"`
}

type ReadResponse struct {
	Plaintext []byte `json:"plaintext"`
}

// PublishRequest creates an article owned by the identity in the caller's
// publisher token. ID is optional; when set it must be a license asset address.
type PublishRequest struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	PublishedWhere string `json:"published_where"`
	PriceCents     int64  `json:"price_cents"`
	Body           []byte `json:"body"`
}

type PublishResponse struct {
	Article *models.Article `json:"article"`
}
