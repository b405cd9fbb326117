package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paywall/internal/client/repositories/grants"
	"github.com/dmitrijs2005/paywall/internal/client/repositories/pending"
	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/dbx"
	"github.com/dmitrijs2005/paywall/internal/ledger"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/gagliardetto/solana-go"
)

// FeeReserve is kept back when checking the payer balance so the network
// fee of a single-signature transfer is covered.
const FeeReserve uint64 = 5000

const DefaultConfirmTimeout = 60 * time.Second

// PaymentLedger is the part of the ledger a payment needs.
type PaymentLedger interface {
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
	LatestBlockhash(ctx context.Context) (*ledger.Blockhash, error)
	BlockHeight(ctx context.Context) (uint64, error)
	Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	AwaitConfirmation(ctx context.Context, sig solana.Signature) error
	TransactionState(ctx context.Context, sig solana.Signature) (ledger.TxState, error)
}

type Quoter interface {
	Quote(ctx context.Context, cents int64) (*models.PaymentQuote, error)
}

// Outcome is what Reconcile did with a pending payment.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeGranted
	OutcomeCleared
	OutcomePending
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeCleared:
		return "cleared"
	case OutcomePending:
		return "pending"
	default:
		return "none"
	}
}

type PaymentService struct {
	db             *sql.DB
	ledger         PaymentLedger
	quoter         Quoter
	confirmTimeout time.Duration
	logger         logging.Logger
	now            func() time.Time
}

func NewPaymentService(db *sql.DB, l PaymentLedger, q Quoter, confirmTimeout time.Duration, logger logging.Logger) *PaymentService {
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	return &PaymentService{
		db:             db,
		ledger:         l,
		quoter:         q,
		confirmTimeout: confirmTimeout,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *PaymentService) grantRepo(tx dbx.DBTX) grants.Repository {
	return grants.NewSQLiteRepository(tx)
}

func (s *PaymentService) pendingRepo(tx dbx.DBTX) pending.Repository {
	return pending.NewSQLiteRepository(tx)
}

// Pay transfers the article price from the wallet to the article owner and
// records an access grant once the transfer is confirmed.
//
// A grant is written only after confirmation. If the outcome is unknown when
// the wait ends, the payment stays pending and further Pay calls for the
// article are refused until Reconcile settles it.
func (s *PaymentService) Pay(ctx context.Context, article *models.Article, payer models.Identity, wallet ledger.MessageSigner) (*models.PaymentReceipt, error) {
	if wallet == nil || payer.IsZero() {
		return nil, common.ErrNoIdentity
	}
	from, err := solana.PublicKeyFromBase58(payer.String())
	if err != nil {
		return nil, fmt.Errorf("%w: payer %q", common.ErrInvalidInput, payer)
	}
	if !from.Equals(wallet.PublicKey()) {
		return nil, fmt.Errorf("%w: wallet does not hold the payer key", common.ErrInvalidInput)
	}
	if article == nil {
		return nil, fmt.Errorf("%w: no article", common.ErrInvalidInput)
	}
	to, err := solana.PublicKeyFromBase58(article.Owner.String())
	if err != nil {
		return nil, fmt.Errorf("%w: owner %q", common.ErrInvalidRecipient, article.Owner)
	}
	if from.Equals(to) {
		return nil, fmt.Errorf("%w: payer owns the article", common.ErrInvalidInput)
	}

	granted, err := s.grantRepo(s.db).IsGranted(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	if granted {
		return nil, common.ErrAlreadyGranted
	}
	if _, err := s.pendingRepo(s.db).Get(ctx, article.ID); err == nil {
		return nil, common.ErrPaymentPending
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	if article.PriceCents <= 0 {
		return nil, fmt.Errorf("%w: article has no price", common.ErrInvalidAmount)
	}

	quote, err := s.quoter.Quote(ctx, article.PriceCents)
	if err != nil {
		return nil, err
	}
	if quote.Lamports == 0 {
		return nil, fmt.Errorf("%w: price rounds to zero", common.ErrInvalidAmount)
	}

	balance, err := s.ledger.Balance(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if balance < quote.Lamports+FeeReserve {
		return nil, fmt.Errorf("%w: have %d lamports, need %d", common.ErrInsufficientFunds, balance, quote.Lamports+FeeReserve)
	}

	recent, err := s.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	tx, err := ledger.NewTransfer(from, to, quote.Lamports, recent.Hash)
	if err != nil {
		return nil, err
	}
	if err := ledger.PartialSign(tx, ledger.AuthoritativeSigner(wallet)); err != nil {
		return nil, err
	}
	sig := tx.Signatures[0]

	p := &models.PendingPayment{
		ArticleID:            article.ID,
		Signature:            sig.String(),
		Payer:                payer,
		Lamports:             quote.Lamports,
		LastValidBlockHeight: recent.LastValidBlockHeight,
		SubmittedAt:          s.now(),
	}
	if err := s.pendingRepo(s.db).Put(ctx, p); err != nil {
		return nil, err
	}

	if _, err := s.ledger.Submit(ctx, tx); err != nil {
		if errors.Is(err, ledger.ErrRejected) {
			s.clearPending(ctx, article.ID)
			return nil, fmt.Errorf("%w: %v", common.ErrSubmissionRejected, err)
		}
		s.logger.Warn(ctx, "submit outcome unknown, payment kept pending", "article", article.ID, "signature", p.Signature, "error", err)
		return nil, fmt.Errorf("%w: submit: %v", common.ErrConfirmationTimeout, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()
	if err := s.ledger.AwaitConfirmation(waitCtx, sig); err != nil {
		if errors.Is(err, ledger.ErrRejected) {
			s.clearPending(ctx, article.ID)
			return nil, fmt.Errorf("%w: %v", common.ErrSubmissionRejected, err)
		}
		s.logger.Warn(ctx, "confirmation not observed, payment kept pending", "article", article.ID, "signature", p.Signature)
		return nil, fmt.Errorf("%w: signature %s", common.ErrConfirmationTimeout, p.Signature)
	}

	confirmedAt := s.now()
	if err := s.settle(ctx, p, confirmedAt); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "payment confirmed", "article", article.ID, "signature", p.Signature, "lamports", quote.Lamports)
	return &models.PaymentReceipt{
		ArticleID:   article.ID,
		Signature:   p.Signature,
		Payer:       payer,
		Lamports:    quote.Lamports,
		Quote:       *quote,
		ConfirmedAt: confirmedAt,
	}, nil
}

// settle writes the grant and drops the pending record in one transaction.
// The transfer already happened, so the write is not abandoned when ctx is.
func (s *PaymentService) settle(ctx context.Context, p *models.PendingPayment, at time.Time) error {
	ctx = context.WithoutCancel(ctx)
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.grantRepo(tx).Put(ctx, &models.AccessGrant{
			ArticleID: p.ArticleID,
			Granted:   true,
			Signature: p.Signature,
			Payer:     p.Payer,
			GrantedAt: at,
		}); err != nil {
			return err
		}
		return s.pendingRepo(tx).Delete(ctx, p.ArticleID)
	})
}

func (s *PaymentService) clearPending(ctx context.Context, articleID string) {
	if err := s.pendingRepo(s.db).Delete(context.WithoutCancel(ctx), articleID); err != nil {
		s.logger.Error(ctx, "failed to clear pending payment", "article", articleID, "error", err)
	}
}

// Reconcile asks the ledger what became of a pending payment for the
// article. A confirmed transfer is turned into a grant. A failed one, or one
// whose blockhash expired without the ledger knowing the signature, is
// cleared so the reader may pay again.
func (s *PaymentService) Reconcile(ctx context.Context, articleID string) (Outcome, error) {
	p, err := s.pendingRepo(s.db).Get(ctx, articleID)
	if errors.Is(err, common.ErrorNotFound) {
		return OutcomeNone, nil
	}
	if err != nil {
		return OutcomeNone, err
	}

	sig, err := solana.SignatureFromBase58(p.Signature)
	if err != nil {
		s.clearPending(ctx, articleID)
		return OutcomeCleared, nil
	}

	state, err := s.ledger.TransactionState(ctx, sig)
	if err != nil {
		return OutcomePending, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	switch state {
	case ledger.TxConfirmed:
		if err := s.settle(ctx, p, s.now()); err != nil {
			return OutcomePending, err
		}
		s.logger.Info(ctx, "pending payment confirmed", "article", articleID, "signature", p.Signature)
		return OutcomeGranted, nil
	case ledger.TxFailed:
		s.clearPending(ctx, articleID)
		return OutcomeCleared, nil
	case ledger.TxPending:
		return OutcomePending, nil
	}

	height, err := s.ledger.BlockHeight(ctx)
	if err != nil {
		return OutcomePending, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if height > p.LastValidBlockHeight {
		s.logger.Info(ctx, "pending payment expired", "article", articleID, "signature", p.Signature)
		s.clearPending(ctx, articleID)
		return OutcomeCleared, nil
	}
	return OutcomePending, nil
}

func (s *PaymentService) Grants(ctx context.Context) ([]*models.AccessGrant, error) {
	return s.grantRepo(s.db).List(ctx)
}

func (s *PaymentService) Pending(ctx context.Context) ([]*models.PendingPayment, error) {
	return s.pendingRepo(s.db).List(ctx)
}
