package config

import "time"

// Config holds runtime settings for the paywall reader CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the server's gRPC endpoint.
//   - ActionsURL: base URL of the server's HTTP endpoint (mint action).
//   - RPCEndpoint: Solana JSON-RPC endpoint used for payments.
//   - KeypairPath: solana-keygen file holding the reader's wallet.
//   - PriceURL: spot price source.
//   - DatabasePath: SQLite file with grants and pending payments.
//   - ConfirmTimeout: how long a payment waits for confirmation.
//   - PollInterval: signature status polling interval.
//   - PublisherToken: optional token for the publish command.
//   - ExplorerURL: address explorer base; article ids that are asset
//     addresses are shown as links under it. Empty disables the links.
type Config struct {
	ServerEndpointAddr string
	ActionsURL         string
	RPCEndpoint        string
	KeypairPath        string
	PriceURL           string
	DatabasePath       string
	ConfirmTimeout     time.Duration
	PollInterval       time.Duration
	PublisherToken     string
	ExplorerURL        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ActionsURL = "http://127.0.0.1:8080"
	c.RPCEndpoint = "https://api.devnet.solana.com"
	c.KeypairPath = "wallet.json"
	c.PriceURL = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"
	c.DatabasePath = "grants.db"
	c.ConfirmTimeout = 60 * time.Second
	c.PollInterval = 500 * time.Millisecond
	c.PublisherToken = ""
	c.ExplorerURL = "https://solana.fm/address"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
