// Package common defines shared constants and sentinel errors used across
// client and server layers of paywall. Callers should use errors.Is to
// match these values and KindOf to pick a transport status.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Input errors, correctable by the caller.
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidRecipient = errors.New("invalid recipient")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNoIdentity       = errors.New("no payer identity")
	ErrAlreadyGranted   = errors.New("access already granted")
	ErrPaymentPending   = errors.New("payment pending confirmation")

	// Upstream (price source, ledger) errors.
	ErrUnavailable        = errors.New("service unavailable")
	ErrPriceUnavailable   = errors.New("price unavailable")
	ErrCollectionNotFound = errors.New("collection not found")

	// Ledger declined the operation.
	ErrSubmissionRejected = errors.New("submission rejected")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAuthorityMismatch  = errors.New("collection authority mismatch")

	// Ledger outcome unknown.
	ErrConfirmationTimeout = errors.New("confirmation timeout")

	// Ciphertext could not be opened.
	ErrDecryption = errors.New("decryption failed")
)

// Kind groups sentinel errors by how a caller is expected to react.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnavailable
	KindRejected
	KindTimeout
	KindDecryption
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnavailable:
		return "unavailable"
	case KindRejected:
		return "rejected"
	case KindTimeout:
		return "timeout"
	case KindDecryption:
		return "decryption_error"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindDecryption, []error{ErrDecryption}},
	{KindTimeout, []error{ErrConfirmationTimeout}},
	{KindRejected, []error{ErrSubmissionRejected, ErrInsufficientFunds, ErrAuthorityMismatch}},
	{KindUnavailable, []error{ErrPriceUnavailable, ErrCollectionNotFound, ErrUnavailable}},
	{KindInvalidInput, []error{ErrInvalidRecipient, ErrInvalidAmount, ErrNoIdentity, ErrAlreadyGranted, ErrPaymentPending, ErrorAlreadyExists, ErrInvalidInput}},
	{KindNotFound, []error{ErrorNotFound}},
	{KindUnauthorized, []error{ErrorUnauthorized, ErrInvalidToken, ErrTokenExpired}},
}

// KindOf classifies err. Errors that match no sentinel are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return KindInternal
}
