package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/paywall/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// See the package documentation for the list.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-r", "-w", "-q", "-d", "-t", "-i", "-j", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.ActionsURL, "u", cfg.ActionsURL, "server HTTP base URL")
	fs.StringVar(&cfg.RPCEndpoint, "r", cfg.RPCEndpoint, "Solana RPC endpoint")
	fs.StringVar(&cfg.KeypairPath, "w", cfg.KeypairPath, "wallet keypair file")
	fs.StringVar(&cfg.PriceURL, "q", cfg.PriceURL, "spot price URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	confirmTimeout := fs.Int("t", int(cfg.ConfirmTimeout.Seconds()), "confirmation timeout (in seconds)")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Milliseconds()), "confirmation polling interval (in milliseconds)")
	fs.StringVar(&cfg.PublisherToken, "j", cfg.PublisherToken, "publisher token")
	fs.StringVar(&cfg.ExplorerURL, "x", cfg.ExplorerURL, "address explorer base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ConfirmTimeout = time.Duration(*confirmTimeout) * time.Second
	cfg.PollInterval = time.Duration(*pollInterval) * time.Millisecond
}
