package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/paywall/internal/client/client"
	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/ledger"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, client.RunMigrations(context.Background(), db))
	return db
}

func newKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	k, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return k
}

func identity(k solana.PrivateKey) models.Identity {
	return models.Identity(k.PublicKey().String())
}

type fakeLedger struct {
	mu sync.Mutex

	balance    uint64
	balanceErr error
	hashErr    error
	height     uint64
	submitErr  error
	awaitErr   error
	// awaitBlock makes AwaitConfirmation wait for the context instead.
	awaitBlock bool
	state      ledger.TxState
	stateErr   error

	submitted []*solana.Transaction
}

func (f *fakeLedger) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	return f.balance, f.balanceErr
}

func (f *fakeLedger) LatestBlockhash(ctx context.Context) (*ledger.Blockhash, error) {
	if f.hashErr != nil {
		return nil, f.hashErr
	}
	return &ledger.Blockhash{Hash: solana.Hash{1, 2, 3}, LastValidBlockHeight: 1000}, nil
}

func (f *fakeLedger) BlockHeight(ctx context.Context) (uint64, error) {
	return f.height, nil
}

func (f *fakeLedger) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, tx)
	if f.submitErr != nil {
		return solana.Signature{}, f.submitErr
	}
	return tx.Signatures[0], nil
}

func (f *fakeLedger) AwaitConfirmation(ctx context.Context, sig solana.Signature) error {
	if f.awaitBlock {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.awaitErr
}

func (f *fakeLedger) TransactionState(ctx context.Context, sig solana.Signature) (ledger.TxState, error) {
	return f.state, f.stateErr
}

func (f *fakeLedger) submits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

type fakeQuoter struct {
	lamports uint64
	err      error
	calls    int
}

func (f *fakeQuoter) Quote(ctx context.Context, cents int64) (*models.PaymentQuote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.PaymentQuote{Cents: cents, SpotPrice: decimal.NewFromInt(150), Lamports: f.lamports}, nil
}

// fakeArticleClient serves articles from memory and records decryption calls.
type fakeArticleClient struct {
	client.Client

	articles  map[string]*models.Article
	reads     int
	readErr   error
	plaintext []byte
	published *models.Article
}

func (f *fakeArticleClient) ListArticles(ctx context.Context, owner models.Identity) ([]*models.Article, error) {
	var out []*models.Article
	for _, a := range f.articles {
		if owner == "" || a.Owner == owner {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticleClient) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeArticleClient) Read(ctx context.Context, p *models.EncryptedPayload) ([]byte, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.plaintext, nil
}

func newArticle(owner models.Identity, cents int64) *models.Article {
	return &models.Article{
		ID:          "a1",
		Title:       "Gas fees explained",
		PublishedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Owner:       owner,
		Payload:     models.EncryptedPayload{Ciphertext: []byte{1, 2, 3}, IV: make([]byte, 12)},
		PriceCents:  cents,
	}
}
