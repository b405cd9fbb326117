// Package ledger talks to the Solana cluster and builds, signs and encodes
// transactions for the paywall.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paywall/internal/ledger/mplcore"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

var (
	ErrNotFound = errors.New("ledger: account not found")
	// ErrRejected means the cluster refused the transaction or executed it
	// with an error. Nothing was transferred.
	ErrRejected = errors.New("ledger: transaction rejected")
)

const DefaultPollInterval = 500 * time.Millisecond

// TxState is what the cluster currently knows about a signature.
type TxState int

const (
	TxUnknown TxState = iota
	TxPending
	TxConfirmed
	TxFailed
)

func (s TxState) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxConfirmed:
		return "confirmed"
	case TxFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RPCClient implements the ledger operations over Solana JSON-RPC.
type RPCClient struct {
	rpc          *rpc.Client
	pollInterval time.Duration
	logger       logging.Logger
}

func NewRPCClient(endpoint string, pollInterval time.Duration, logger logging.Logger) *RPCClient {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &RPCClient{
		rpc:          rpc.New(endpoint),
		pollInterval: pollInterval,
		logger:       logger.With("module", "ledger"),
	}
}

// FetchCollection reads and decodes an MPL Core collection account.
func (c *RPCClient) FetchCollection(ctx context.Context, address solana.PublicKey) (*mplcore.Collection, error) {
	out, err := c.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, address)
		}
		return nil, fmt.Errorf("get account %s: %w", address, err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	if !out.Value.Owner.Equals(mplcore.ProgramID) {
		return nil, fmt.Errorf("%w: %s owned by %s", mplcore.ErrNotCollection, address, out.Value.Owner)
	}

	collection, err := mplcore.DecodeCollection(out.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", address, err)
	}
	collection.Address = address
	return collection, nil
}

func (c *RPCClient) LatestBlockhash(ctx context.Context) (*Blockhash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	return &Blockhash{Hash: out.Value.Blockhash, LastValidBlockHeight: out.Value.LastValidBlockHeight}, nil
}

func (c *RPCClient) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, account, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("get balance %s: %w", account, err)
	}
	return out.Value, nil
}

func (c *RPCClient) BlockHeight(ctx context.Context) (uint64, error) {
	h, err := c.rpc.GetBlockHeight(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("get block height: %w", err)
	}
	return h, nil
}

// Submit sends a fully signed transaction. A JSON-RPC error from the node
// is reported as ErrRejected. Any other error leaves the outcome unknown.
func (c *RPCClient) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			return solana.Signature{}, fmt.Errorf("%w: %s", ErrRejected, rpcErr.Message)
		}
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	c.logger.Debug(ctx, "transaction submitted", "signature", sig.String())
	return sig, nil
}

// TransactionState looks the signature up, including history.
func (c *RPCClient) TransactionState(ctx context.Context, sig solana.Signature) (TxState, error) {
	out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return TxUnknown, fmt.Errorf("get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return TxUnknown, nil
	}

	st := out.Value[0]
	if st.Err != nil {
		return TxFailed, nil
	}
	switch st.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return TxConfirmed, nil
	default:
		return TxPending, nil
	}
}

// AwaitConfirmation polls until sig reaches confirmed commitment. It returns
// ErrRejected if the transaction executed with an error and ctx.Err() when
// the caller stops waiting.
func (c *RPCClient) AwaitConfirmation(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		state, err := c.TransactionState(ctx, sig)
		if err != nil && ctx.Err() == nil {
			c.logger.Warn(ctx, "signature status lookup failed", "signature", sig.String(), "error", err)
		}
		switch state {
		case TxConfirmed:
			return nil
		case TxFailed:
			return fmt.Errorf("%w: %s failed on chain", ErrRejected, sig)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
