package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/ledger"
	"github.com/dmitrijs2005/paywall/internal/ledger/mplcore"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/gagliardetto/solana-go"
)

type MintAction interface {
	Describe(ctx context.Context) (*models.ActionDescriptor, error)
	Mint(ctx context.Context, account models.Identity) (*models.ActionPostResponse, error)
}

type ClaimLedger interface {
	Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	AwaitConfirmation(ctx context.Context, sig solana.Signature) error
}

type ClaimResult struct {
	Asset     string
	Signature string
	Message   string
}

// ClaimService asks the mint action for a license transaction, adds the
// wallet signature and submits it.
type ClaimService struct {
	action         MintAction
	ledger         ClaimLedger
	confirmTimeout time.Duration
	logger         logging.Logger
}

func NewClaimService(a MintAction, l ClaimLedger, confirmTimeout time.Duration, logger logging.Logger) *ClaimService {
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	return &ClaimService{action: a, ledger: l, confirmTimeout: confirmTimeout, logger: logger}
}

// Describe fetches the mint action descriptor so the reader can see what
// they are about to sign for.
func (s *ClaimService) Describe(ctx context.Context) (*models.ActionDescriptor, error) {
	return s.action.Describe(ctx)
}

func (s *ClaimService) Claim(ctx context.Context, wallet ledger.MessageSigner) (*ClaimResult, error) {
	if wallet == nil {
		return nil, common.ErrNoIdentity
	}
	account := models.Identity(wallet.PublicKey().String())

	resp, err := s.action.Mint(ctx, account)
	if err != nil {
		return nil, err
	}
	tx, err := ledger.DecodeTransaction(resp.Transaction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	missing, err := ledger.MissingSignatures(tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if len(missing) != 1 || !missing[0].Equals(wallet.PublicKey()) {
		return nil, fmt.Errorf("%w: transaction expects signers %v", common.ErrorInternal, missing)
	}

	asset, err := licenseAsset(tx)
	if err != nil {
		return nil, err
	}

	if err := ledger.PartialSign(tx, ledger.AuthoritativeSigner(wallet)); err != nil {
		return nil, err
	}

	sig, err := s.ledger.Submit(ctx, tx)
	if err != nil {
		if errors.Is(err, ledger.ErrRejected) {
			return nil, fmt.Errorf("%w: %v", common.ErrSubmissionRejected, err)
		}
		s.logger.Warn(ctx, "license submit outcome unknown", "asset", asset.String(), "error", err)
		return nil, fmt.Errorf("%w: submit: %v", common.ErrConfirmationTimeout, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()
	if err := s.ledger.AwaitConfirmation(waitCtx, sig); err != nil {
		if errors.Is(err, ledger.ErrRejected) {
			return nil, fmt.Errorf("%w: %v", common.ErrSubmissionRejected, err)
		}
		return nil, fmt.Errorf("%w: signature %s", common.ErrConfirmationTimeout, sig)
	}

	s.logger.Info(ctx, "license minted", "asset", asset.String(), "signature", sig.String())
	return &ClaimResult{Asset: asset.String(), Signature: sig.String(), Message: resp.Message}, nil
}

// licenseAsset finds the new asset address: the first account of the
// core program instruction.
func licenseAsset(tx *solana.Transaction) (solana.PublicKey, error) {
	keys := tx.Message.AccountKeys
	for _, ix := range tx.Message.Instructions {
		if int(ix.ProgramIDIndex) >= len(keys) || !keys[ix.ProgramIDIndex].Equals(mplcore.ProgramID) {
			continue
		}
		if len(ix.Accounts) == 0 || int(ix.Accounts[0]) >= len(keys) {
			break
		}
		return keys[ix.Accounts[0]], nil
	}
	return solana.PublicKey{}, fmt.Errorf("%w: no license instruction in transaction", common.ErrorInternal)
}
