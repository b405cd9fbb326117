package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/ledger"
	"github.com/dmitrijs2005/paywall/internal/ledger/mplcore"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/gagliardetto/solana-go"
)

// ActionsPath is where the mint action's POST handler is mounted.
const ActionsPath = "/api/actions"

// MintLedger is the part of the ledger the mint action reads.
type MintLedger interface {
	FetchCollection(ctx context.Context, address solana.PublicKey) (*mplcore.Collection, error)
	LatestBlockhash(ctx context.Context) (*ledger.Blockhash, error)
}

type MintConfig struct {
	Collection  solana.PublicKey
	AssetName   string
	AssetURI    string
	Icon        string
	Title       string
	Label       string
	Description string
}

// MintService builds license mint transactions. The server co-signs as
// collection authority and as the fresh asset; the recipient pays and signs
// last, in their own wallet.
type MintService struct {
	ledger    MintLedger
	authority solana.PrivateKey
	cfg       MintConfig
	newKey    func() (solana.PrivateKey, error)
	logger    logging.Logger
}

func NewMintService(l MintLedger, authority solana.PrivateKey, cfg MintConfig, logger logging.Logger) *MintService {
	return &MintService{
		ledger:    l,
		authority: authority,
		cfg:       cfg,
		newKey:    solana.NewRandomPrivateKey,
		logger:    logger.With("module", "mint_service"),
	}
}

// SetAssetURI replaces the metadata URI, e.g. after uploading the document.
func (s *MintService) SetAssetURI(uri string) { s.cfg.AssetURI = uri }

func (s *MintService) Describe() models.ActionDescriptor {
	return models.ActionDescriptor{
		Icon:        s.cfg.Icon,
		Title:       s.cfg.Title,
		Label:       s.cfg.Label,
		Description: s.cfg.Description,
		Disabled:    s.cfg.Collection == (solana.PublicKey{}),
		Links: &models.ActionLinks{
			Actions: []models.LinkedAction{{Label: s.cfg.Label, Href: ActionsPath}},
		},
	}
}

// Build returns a base64 transaction minting one license to account. The
// transaction is never submitted by the server, and the asset key is
// discarded once it has signed.
func (s *MintService) Build(ctx context.Context, account string) (*models.MintResult, error) {
	recipient, err := solana.PublicKeyFromBase58(account)
	if err != nil {
		return nil, common.ErrInvalidRecipient
	}
	if s.cfg.Collection == (solana.PublicKey{}) {
		return nil, fmt.Errorf("%w: no collection configured", common.ErrCollectionNotFound)
	}

	collection, err := s.ledger.FetchCollection(ctx, s.cfg.Collection)
	if err != nil {
		s.logger.Warn(ctx, "collection lookup failed", "collection", s.cfg.Collection.String(), "error", err)
		if errors.Is(err, ledger.ErrNotFound) || errors.Is(err, mplcore.ErrNotCollection) || errors.Is(err, mplcore.ErrTruncated) {
			return nil, fmt.Errorf("%w: %s", common.ErrCollectionNotFound, s.cfg.Collection)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if !collection.UpdateAuthority.Equals(s.authority.PublicKey()) {
		return nil, fmt.Errorf("%w: collection %s", common.ErrAuthorityMismatch, s.cfg.Collection)
	}

	asset, err := s.newKey()
	if err != nil {
		return nil, fmt.Errorf("generate asset key: %w", err)
	}

	ix, err := mplcore.NewCreateV1Instruction(mplcore.CreateV1Accounts{
		Asset:      asset.PublicKey(),
		Collection: s.cfg.Collection,
		Authority:  s.authority.PublicKey(),
		Payer:      recipient,
		Owner:      recipient,
	}, mplcore.CreateV1Args{Name: s.cfg.AssetName, URI: s.cfg.AssetURI})
	if err != nil {
		return nil, err
	}

	recent, err := s.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	tx, err := solana.NewTransaction([]solana.Instruction{ix}, recent.Hash, solana.TransactionPayer(recipient))
	if err != nil {
		return nil, fmt.Errorf("build mint transaction: %w", err)
	}

	if err := ledger.PartialSign(tx,
		ledger.AuthoritativeSigner(asset),
		ledger.AuthoritativeSigner(s.authority),
		ledger.PlaceholderSigner(recipient),
	); err != nil {
		return nil, err
	}

	encoded, err := ledger.EncodeTransaction(tx)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "mint transaction built", "recipient", recipient.String(), "asset", asset.PublicKey().String())
	return &models.MintResult{Transaction: encoded, Asset: asset.PublicKey().String()}, nil
}
