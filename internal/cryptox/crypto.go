// Package cryptox implements the content cipher used to keep article bodies
// encrypted at rest.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/models"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

var ErrKeySize = errors.New("content key must be 32 bytes")

// DeriveKey stretches a configured secret into an AES-256 key.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// ContentCipher seals and opens article bodies with AES-256-GCM. It is safe
// for concurrent use.
type ContentCipher struct {
	aead cipher.AEAD
}

func NewContentCipher(key []byte) (*ContentCipher, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &ContentCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a freshly generated IV. Two calls with the
// same plaintext never share an IV.
func (c *ContentCipher) Encrypt(plaintext []byte) (*models.EncryptedPayload, error) {
	iv, err := common.RandomBytes(c.aead.NonceSize())
	if err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	return &models.EncryptedPayload{
		Ciphertext: c.aead.Seal(nil, iv, plaintext, nil),
		IV:         iv,
	}, nil
}

// Decrypt opens p. Any failure, including a malformed IV or a tampered
// ciphertext, is reported as common.ErrDecryption with no plaintext.
func (c *ContentCipher) Decrypt(p *models.EncryptedPayload) ([]byte, error) {
	if p == nil || len(p.IV) != c.aead.NonceSize() {
		return nil, common.ErrDecryption
	}
	plaintext, err := c.aead.Open(nil, p.IV, p.Ciphertext, nil)
	if err != nil {
		return nil, common.ErrDecryption
	}
	return plaintext, nil
}
