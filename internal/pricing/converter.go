// Package pricing converts article prices in US cents into lamports using a
// live spot price. There is no fallback price: when the source cannot answer,
// no quote is produced.
package pricing

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/shopspring/decimal"
)

var (
	lamportsPerSOL = decimal.NewFromInt(common.LamportsPerSOL)
	centsPerDollar = decimal.NewFromInt(100)
	maxLamports    = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)
)

type Converter struct {
	source Source
	logger logging.Logger
}

func NewConverter(source Source, logger logging.Logger) *Converter {
	return &Converter{source: source, logger: logger.With("module", "pricing")}
}

// Quote prices cents at the current spot rate.
func (c *Converter) Quote(ctx context.Context, cents int64) (*models.PaymentQuote, error) {
	if cents < 0 {
		return nil, common.ErrInvalidAmount
	}

	spot, err := c.source.SpotPrice(ctx)
	if err != nil {
		c.logger.Warn(ctx, "spot price lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrPriceUnavailable, err)
	}

	lamports, err := CentsToLamports(cents, spot)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(ctx, "quote", "cents", cents, "spot", spot.String(), "lamports", lamports)
	return &models.PaymentQuote{Cents: cents, SpotPrice: spot, Lamports: lamports}, nil
}

// CentsToLamports returns ceil(cents * 1e9 / (100 * spot)). Rounding up
// guarantees that a non-zero price never becomes a zero transfer.
func CentsToLamports(cents int64, spot decimal.Decimal) (uint64, error) {
	if cents < 0 {
		return 0, common.ErrInvalidAmount
	}
	if spot.Sign() <= 0 {
		return 0, common.ErrPriceUnavailable
	}
	if cents == 0 {
		return 0, nil
	}

	num := decimal.NewFromInt(cents).Mul(lamportsPerSOL)
	den := spot.Mul(centsPerDollar)

	q, r := num.QuoRem(den, 0)
	if r.Sign() > 0 {
		q = q.Add(decimal.NewFromInt(1))
	}
	if q.GreaterThan(maxLamports) {
		return 0, common.ErrInvalidAmount
	}
	return q.BigInt().Uint64(), nil
}
