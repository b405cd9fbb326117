package models

import "time"

// Identity is a wallet public key in its base58 text form. Identities are
// compared as exact strings. The zero value means "no identity".
type Identity string

func (i Identity) IsZero() bool { return i == "" }

func (i Identity) String() string { return string(i) }

// EncryptedPayload is the AES-GCM ciphertext of an article body together
// with the IV used to produce it.
type EncryptedPayload struct {
	Ciphertext []byte `json:"ciphertext"`
	IV         []byte `json:"iv"`
}

// Article is immutable once published.
type Article struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	PublishedWhere string           `json:"published_where"`
	PublishedAt    time.Time        `json:"published_at"`
	Owner          Identity         `json:"owner"`
	Payload        EncryptedPayload `json:"payload"`
	PriceCents     int64            `json:"price_cents"`
}
