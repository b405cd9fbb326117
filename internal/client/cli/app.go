package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrijs2005/paywall/internal/client/client"
	"github.com/dmitrijs2005/paywall/internal/client/config"
	"github.com/dmitrijs2005/paywall/internal/client/services"
	"github.com/dmitrijs2005/paywall/internal/ledger"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/pricing"
	"github.com/gagliardetto/solana-go"
)

type balanceReader interface {
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
}

type App struct {
	config   *config.Config
	db       *sql.DB
	api      client.Client
	articles *services.ArticleService
	payments *services.PaymentService
	claims   *services.ClaimService
	quoter   services.Quoter
	balances balanceReader
	wallet   solana.PrivateKey
	explorer string
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	wallet, err := ledger.LoadKeypair(c.KeypairPath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	api, err := client.NewPaywallClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if c.PublisherToken != "" {
		api.SetPublisherToken(c.PublisherToken)
	}

	rpc := ledger.NewRPCClient(c.RPCEndpoint, c.PollInterval, logger)
	quoter := pricing.NewConverter(pricing.NewCoinGeckoSource(c.PriceURL, 0), logger)
	actions := client.NewActionsClient(c.ActionsURL, nil)

	return &App{
		config:   c,
		db:       db,
		api:      api,
		articles: services.NewArticleService(api, db),
		payments: services.NewPaymentService(db, rpc, quoter, c.ConfirmTimeout, logger),
		claims:   services.NewClaimService(actions, rpc, c.ConfirmTimeout, logger),
		quoter:   quoter,
		balances: rpc,
		wallet:   wallet,
		explorer: strings.TrimRight(c.ExplorerURL, "/"),
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) identity() models.Identity {
	return models.Identity(a.wallet.PublicKey().String())
}

// explorerLink returns the explorer URL for an article whose id is a
// license asset address, or "" for generated ids.
func (a *App) explorerLink(id string) string {
	if a.explorer == "" {
		return ""
	}
	if _, err := solana.PublicKeyFromBase58(id); err != nil {
		return ""
	}
	return a.explorer + "/" + id
}

func (a *App) getStatus() string {
	id := a.identity().String()
	if len(id) > 8 {
		id = id[:4] + ".." + id[len(id)-4:]
	}
	return "(" + id + ")"
}

// Run starts the REPL and blocks until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.api.Close(); err != nil {
			a.logger.Warn(ctx, "close api client", "error", err)
		}
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "close database", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to the paywall reader (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
