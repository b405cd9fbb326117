package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/server/config"
	"github.com/dmitrijs2005/paywall/internal/server/services"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeypair(t *testing.T) (string, solana.PrivateKey) {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "authority.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, key
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = ""
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.AuthorityKeyPath, _ = writeKeypair(t)
	return c
}

func TestNewApp_InMemory(t *testing.T) {
	c := testConfig(t)
	c.CollectionAddress = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

	app, err := newApp(context.Background(), c, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, app.db)
	assert.False(t, app.mint.Describe().Disabled)

	a, err := app.articles.Publish(context.Background(), services.PublishInput{
		Owner: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", Title: "t", Body: []byte("b"),
	})
	require.NoError(t, err)
	plain, err := app.articles.Read(context.Background(), &a.Payload)
	require.NoError(t, err)
	assert.Equal(t, "b", string(plain))
}

func TestNewApp_NoCollectionDisablesMint(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(t), logging.Discard())
	require.NoError(t, err)
	assert.True(t, app.mint.Describe().Disabled)
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("missing keypair", func(t *testing.T) {
		c := testConfig(t)
		c.AuthorityKeyPath = filepath.Join(t.TempDir(), "missing.json")
		_, err := newApp(context.Background(), c, logging.Discard())
		require.Error(t, err)
	})

	t.Run("bad collection", func(t *testing.T) {
		c := testConfig(t)
		c.CollectionAddress = "not-base58-0OIl"
		_, err := newApp(context.Background(), c, logging.Discard())
		require.Error(t, err)
	})
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(t), logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}
