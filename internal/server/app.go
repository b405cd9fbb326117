// Package server wires the paywall server together: storage, the content
// cipher, the ledger client and the two front ends (gRPC for the CLI, HTTP
// for browsers and action clients). It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/paywall/internal/buildinfo"
	"github.com/dmitrijs2005/paywall/internal/cryptox"
	"github.com/dmitrijs2005/paywall/internal/ledger"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/server/config"
	"github.com/dmitrijs2005/paywall/internal/server/httpapi"
	"github.com/dmitrijs2005/paywall/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/paywall/internal/server/services"
	"github.com/gagliardetto/solana-go"

	gs "github.com/dmitrijs2005/paywall/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	articles *services.ArticleService
	mint     *services.MintService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSON(os.Stdout, slog.LevelInfo))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, articles are kept in memory")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = repomanager.Open(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	}

	cipher, err := cryptox.NewContentCipher(cryptox.DeriveKey([]byte(c.ContentSecret), []byte(c.ContentSalt)))
	if err != nil {
		return nil, err
	}

	authority, err := ledger.LoadKeypair(c.AuthorityKeyPath)
	if err != nil {
		return nil, err
	}

	var collection solana.PublicKey
	if c.CollectionAddress != "" {
		collection, err = solana.PublicKeyFromBase58(c.CollectionAddress)
		if err != nil {
			return nil, fmt.Errorf("collection address: %w", err)
		}
	} else {
		logger.Warn(ctx, "no collection configured, mint action is disabled")
	}

	rpc := ledger.NewRPCClient(c.RPCEndpoint, ledger.DefaultPollInterval, logger)
	mint := services.NewMintService(rpc, authority, services.MintConfig{
		Collection:  collection,
		AssetName:   c.MintAssetName,
		AssetURI:    c.MintAssetURI,
		Icon:        c.ActionIcon,
		Title:       c.ActionTitle,
		Label:       c.ActionLabel,
		Description: c.ActionDescription,
	}, logger)

	if c.S3Bucket != "" {
		uri, err := publishLicenseMetadata(ctx, c, logger)
		if err != nil {
			return nil, err
		}
		mint.SetAssetURI(uri)
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		articles: services.NewArticleService(db, rm, cipher, logger),
		mint:     mint,
	}, nil
}

func publishLicenseMetadata(ctx context.Context, c *config.Config, logger logging.Logger) (string, error) {
	presigner, err := services.NewS3Presigner(ctx, c)
	if err != nil {
		return "", err
	}
	pub := services.NewMetadataPublisher(presigner, c.S3Bucket, c.S3BaseEndpoint, nil, logger)
	return pub.Publish(ctx, services.LicenseMetadata{
		Name:        c.MintAssetName,
		Description: c.ActionDescription,
		Image:       c.ActionIcon,
		ExternalURL: c.MintAssetURI,
		Attributes: []services.Attribute{
			{TraitType: "kind", Value: "license"},
			{TraitType: "collection", Value: c.CollectionAddress},
		},
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.articles, buildinfo.Version, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.articles, app.mint, app.logger)
	if err := httpapi.NewServer(app.config.EndpointAddrHTTP, h, app.logger).Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both front ends until ctx is cancelled, a signal arrives or
// one of the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
	app.logger.Info(context.Background(), "App stopped")
}
