package wire

import (
	"testing"

	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_ReadRequest(t *testing.T) {
	c := jsonCodec{}

	b, err := c.Marshal(&ReadRequest{Payload: models.EncryptedPayload{Ciphertext: []byte{1}, IV: []byte{2}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"payload":{"ciphertext":"AQ==","iv":"Ag=="}}`, string(b))

	var out ReadRequest
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, []byte{1}, out.Payload.Ciphertext)
}
