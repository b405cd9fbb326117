package ledger

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrUnknownSigner = errors.New("signer is not required by the transaction")
	// ErrMalformedSignatures means the signature table does not match the
	// message header.
	ErrMalformedSignatures = errors.New("malformed signature table")
)

// MessageSigner signs serialized transaction messages. solana.PrivateKey
// satisfies it, as do wallets that keep the key elsewhere.
type MessageSigner interface {
	PublicKey() solana.PublicKey
	Sign(message []byte) (solana.Signature, error)
}

type SignerKind int

const (
	// Authoritative signers produce a real signature now.
	Authoritative SignerKind = iota
	// Placeholder signers reserve a slot that another party fills later.
	Placeholder
)

// Signer is either a key that signs now or the address of a party who will
// sign after the transaction leaves this process.
type Signer struct {
	Kind   SignerKind
	Key    solana.PublicKey
	signer MessageSigner
}

func AuthoritativeSigner(s MessageSigner) Signer {
	return Signer{Kind: Authoritative, Key: s.PublicKey(), signer: s}
}

func PlaceholderSigner(key solana.PublicKey) Signer {
	return Signer{Kind: Placeholder, Key: key}
}

// PartialSign fills the signature slots of the given authoritative signers.
// Placeholder slots, and slots of required signers not passed in, keep their
// current value, which is all zeroes for a fresh transaction. Signatures
// already present are never dropped, so a transaction can pass through
// several PartialSign calls held by different parties.
func PartialSign(tx *solana.Transaction, signers ...Signer) error {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Message.AccountKeys) < required {
		return fmt.Errorf("partial sign: %d account keys for %d signatures", len(tx.Message.AccountKeys), required)
	}

	if len(tx.Signatures) < required {
		sigs := make([]solana.Signature, required)
		copy(sigs, tx.Signatures)
		tx.Signatures = sigs
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("partial sign: marshal message: %w", err)
	}

	for _, s := range signers {
		slot := -1
		for i, key := range tx.Message.AccountKeys[:required] {
			if key.Equals(s.Key) {
				slot = i
				break
			}
		}
		if slot < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownSigner, s.Key)
		}
		if s.Kind == Placeholder {
			continue
		}

		sig, err := s.signer.Sign(message)
		if err != nil {
			return fmt.Errorf("partial sign %s: %w", s.Key, err)
		}
		tx.Signatures[slot] = sig
	}
	return nil
}

// MissingSignatures lists required signers whose slot is still empty, in
// account order.
func MissingSignatures(tx *solana.Transaction) ([]solana.PublicKey, error) {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) != required || len(tx.Message.AccountKeys) < required {
		return nil, fmt.Errorf("%w: %d signatures for %d required signers", ErrMalformedSignatures, len(tx.Signatures), required)
	}
	var missing []solana.PublicKey
	for i := 0; i < required; i++ {
		if tx.Signatures[i] == (solana.Signature{}) {
			missing = append(missing, tx.Message.AccountKeys[i])
		}
	}
	return missing, nil
}
