package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"
	defaultTimeout      = 5 * time.Second
)

// Source reports the current price of one SOL in USD.
type Source interface {
	SpotPrice(ctx context.Context) (decimal.Decimal, error)
}

// CoinGeckoSource reads the spot price from the CoinGecko simple price API.
type CoinGeckoSource struct {
	url    string
	client *http.Client
}

func NewCoinGeckoSource(url string, timeout time.Duration) *CoinGeckoSource {
	if url == "" {
		url = DefaultCoinGeckoURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CoinGeckoSource{url: url, client: &http.Client{Timeout: timeout}}
}

type simplePriceResponse map[string]map[string]decimal.Decimal

func (s *CoinGeckoSource) SpotPrice(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("fetch price: unexpected status %d", resp.StatusCode)
	}

	var body simplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode price: %w", err)
	}

	price, ok := body["solana"]["usd"]
	if !ok {
		return decimal.Zero, fmt.Errorf("decode price: solana.usd missing")
	}
	return price, nil
}
