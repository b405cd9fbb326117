package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/ledger"
	"github.com/dmitrijs2005/paywall/internal/ledger/mplcore"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAction struct {
	desc *models.ActionDescriptor
	resp *models.ActionPostResponse
	err  error
	got  models.Identity
}

func (f *fakeAction) Describe(ctx context.Context) (*models.ActionDescriptor, error) {
	return f.desc, f.err
}

func (f *fakeAction) Mint(ctx context.Context, account models.Identity) (*models.ActionPostResponse, error) {
	f.got = account
	return f.resp, f.err
}

// mintTransaction builds what the mint action returns: asset and authority
// signed, the wallet slot left empty.
func mintTransaction(t *testing.T, wallet solana.PublicKey, extraPlaceholder bool) (string, solana.PublicKey) {
	t.Helper()
	asset, authority := newKey(t), newKey(t)
	ix, err := mplcore.NewCreateV1Instruction(mplcore.CreateV1Accounts{
		Asset:      asset.PublicKey(),
		Collection: newKey(t).PublicKey(),
		Authority:  authority.PublicKey(),
		Payer:      wallet,
		Owner:      wallet,
	}, mplcore.CreateV1Args{Name: "License", URI: "https://example.org/license.json"})
	require.NoError(t, err)

	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{9}, solana.TransactionPayer(wallet))
	require.NoError(t, err)

	signers := []ledger.Signer{ledger.AuthoritativeSigner(asset), ledger.PlaceholderSigner(wallet)}
	if extraPlaceholder {
		signers = append(signers, ledger.PlaceholderSigner(authority.PublicKey()))
	} else {
		signers = append(signers, ledger.AuthoritativeSigner(authority))
	}
	require.NoError(t, ledger.PartialSign(tx, signers...))

	encoded, err := ledger.EncodeTransaction(tx)
	require.NoError(t, err)
	return encoded, asset.PublicKey()
}

func TestClaim_SignsAndSubmits(t *testing.T) {
	wallet := newKey(t)
	encoded, asset := mintTransaction(t, wallet.PublicKey(), false)
	action := &fakeAction{resp: &models.ActionPostResponse{Transaction: encoded, Message: "Sign to mint your license"}}
	l := &fakeLedger{}
	svc := NewClaimService(action, l, time.Second, logging.Discard())

	res, err := svc.Claim(context.Background(), wallet)
	require.NoError(t, err)
	assert.Equal(t, identity(wallet), action.got)
	assert.Equal(t, asset.String(), res.Asset)
	assert.Equal(t, "Sign to mint your license", res.Message)

	require.Equal(t, 1, l.submits())
	tx := l.submitted[0]
	require.NoError(t, tx.VerifySignatures())
	assert.Equal(t, tx.Signatures[0].String(), res.Signature)
}

func TestClaim_Errors(t *testing.T) {
	wallet := newKey(t)
	good, _ := mintTransaction(t, wallet.PublicKey(), false)
	twoMissing, _ := mintTransaction(t, wallet.PublicKey(), true)
	otherWallet, _ := mintTransaction(t, newKey(t).PublicKey(), false)

	tests := []struct {
		name      string
		action    *fakeAction
		ledger    *fakeLedger
		want      error
		submitted int
	}{
		{"action fails", &fakeAction{err: common.ErrCollectionNotFound}, &fakeLedger{}, common.ErrCollectionNotFound, 0},
		{"garbage transaction", &fakeAction{resp: &models.ActionPostResponse{Transaction: "!!"}}, &fakeLedger{}, common.ErrorInternal, 0},
		{"other signer missing", &fakeAction{resp: &models.ActionPostResponse{Transaction: twoMissing}}, &fakeLedger{}, common.ErrorInternal, 0},
		{"built for someone else", &fakeAction{resp: &models.ActionPostResponse{Transaction: otherWallet}}, &fakeLedger{}, common.ErrorInternal, 0},
		{"rejected", &fakeAction{resp: &models.ActionPostResponse{Transaction: good}}, &fakeLedger{submitErr: ledger.ErrRejected}, common.ErrSubmissionRejected, 1},
		{"node down", &fakeAction{resp: &models.ActionPostResponse{Transaction: good}}, &fakeLedger{submitErr: errors.New("eof")}, common.ErrConfirmationTimeout, 1},
		{"failed on chain", &fakeAction{resp: &models.ActionPostResponse{Transaction: good}}, &fakeLedger{awaitErr: ledger.ErrRejected}, common.ErrSubmissionRejected, 1},
		{"not confirmed", &fakeAction{resp: &models.ActionPostResponse{Transaction: good}}, &fakeLedger{awaitBlock: true}, common.ErrConfirmationTimeout, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewClaimService(tt.action, tt.ledger, 20*time.Millisecond, logging.Discard())
			_, err := svc.Claim(context.Background(), wallet)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.submitted, tt.ledger.submits())
		})
	}
}

func TestClaim_NoWallet(t *testing.T) {
	svc := NewClaimService(&fakeAction{}, &fakeLedger{}, time.Second, logging.Discard())
	_, err := svc.Claim(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrNoIdentity)
}

func TestClaim_SubmitTransportErrorNeedsRecheck(t *testing.T) {
	wallet := newKey(t)
	encoded, _ := mintTransaction(t, wallet.PublicKey(), false)
	l := &fakeLedger{submitErr: errors.New("connection reset by peer")}
	svc := NewClaimService(&fakeAction{resp: &models.ActionPostResponse{Transaction: encoded}}, l, time.Second, logging.Discard())

	_, err := svc.Claim(context.Background(), wallet)
	require.ErrorIs(t, err, common.ErrConfirmationTimeout)
	assert.Equal(t, common.KindTimeout, common.KindOf(err))
	assert.NotErrorIs(t, err, common.ErrUnavailable)
	assert.Equal(t, 1, l.submits())
}

func TestClaim_Describe(t *testing.T) {
	desc := &models.ActionDescriptor{Title: "License", Label: "Mint license"}
	svc := NewClaimService(&fakeAction{desc: desc}, &fakeLedger{}, time.Second, logging.Discard())

	got, err := svc.Describe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, desc, got)

	svc = NewClaimService(&fakeAction{err: common.ErrUnavailable}, &fakeLedger{}, time.Second, logging.Discard())
	_, err = svc.Describe(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
}
