package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *ContentCipher {
	t.Helper()
	c, err := NewContentCipher(DeriveKey([]byte("content-secret"), []byte("content-salt")))
	require.NoError(t, err)
	return c
}

func TestDeriveKey_Deterministic(t *testing.T) {
	key1 := DeriveKey([]byte("secret-password"), []byte("fixed-salt"))
	key2 := DeriveKey([]byte("secret-password"), []byte("fixed-salt"))

	require.Len(t, key1, KeySize)
	assert.True(t, bytes.Equal(key1, key2))
	assert.Equal(t, "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39", hex.EncodeToString(key1))
}

func TestDeriveKey_DifferentSalt(t *testing.T) {
	assert.NotEqual(t,
		DeriveKey([]byte("secret"), []byte("salt-1")),
		DeriveKey([]byte("secret"), []byte("salt-2")))
}

func TestNewContentCipher_BadKey(t *testing.T) {
	_, err := NewContentCipher(make([]byte, 16))
	require.ErrorIs(t, err, ErrKeySize)
}

func TestContentCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, body := range [][]byte{[]byte("Hello"), {}, bytes.Repeat([]byte("x"), 1<<16)} {
		p, err := c.Encrypt(body)
		require.NoError(t, err)
		require.Len(t, p.IV, 12)

		got, err := c.Decrypt(p)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(body, got))
	}
}

func TestContentCipher_FreshIVPerCall(t *testing.T) {
	c := newTestCipher(t)

	p1, err := c.Encrypt([]byte("Hello"))
	require.NoError(t, err)
	p2, err := c.Encrypt([]byte("Hello"))
	require.NoError(t, err)

	assert.NotEqual(t, p1.IV, p2.IV)
	assert.NotEqual(t, p1.Ciphertext, p2.Ciphertext)
}

func TestContentCipher_DecryptFailures(t *testing.T) {
	c := newTestCipher(t)
	good, err := c.Encrypt([]byte("paid content"))
	require.NoError(t, err)

	flipped := append([]byte(nil), good.Ciphertext...)
	flipped[0] ^= 0x01

	other, err := NewContentCipher(DeriveKey([]byte("other"), []byte("content-salt")))
	require.NoError(t, err)

	tests := []struct {
		name   string
		cipher *ContentCipher
		p      *models.EncryptedPayload
	}{
		{name: "nil payload", cipher: c, p: nil},
		{name: "tampered ciphertext", cipher: c, p: &models.EncryptedPayload{Ciphertext: flipped, IV: good.IV}},
		{name: "short iv", cipher: c, p: &models.EncryptedPayload{Ciphertext: good.Ciphertext, IV: good.IV[:8]}},
		{name: "empty iv", cipher: c, p: &models.EncryptedPayload{Ciphertext: good.Ciphertext}},
		{name: "wrong key", cipher: other, p: good},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cipher.Decrypt(tt.p)
			require.ErrorIs(t, err, common.ErrDecryption)
			assert.Nil(t, got)
		})
	}
}
