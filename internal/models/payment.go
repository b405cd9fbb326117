package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccessGrant records that this device paid for an article.
type AccessGrant struct {
	ArticleID string
	Granted   bool
	Signature string
	Payer     Identity
	GrantedAt time.Time
}

// PendingPayment is a transfer that was signed and handed to the ledger but
// whose outcome is not yet known. While one exists for an article, a second
// payment for it is refused.
type PendingPayment struct {
	ArticleID            string
	Signature            string
	Payer                Identity
	Lamports             uint64
	LastValidBlockHeight uint64
	SubmittedAt          time.Time
}

// PaymentQuote converts a fiat price to native units. SpotPrice is USD per SOL.
type PaymentQuote struct {
	Cents     int64
	SpotPrice decimal.Decimal
	Lamports  uint64
}

type PaymentReceipt struct {
	ArticleID   string
	Signature   string
	Payer       Identity
	Lamports    uint64
	Quote       PaymentQuote
	ConfirmedAt time.Time
}
