// Package server initializes and runs the Matchbox server.
// It opens the configured state backend, restores the ledger from it and
// runs the gRPC endpoint, the metrics endpoint and the expiry sweeper until
// the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/common"
	"github.com/dmitrijs2005/matchbox/internal/ledger"
	"github.com/dmitrijs2005/matchbox/internal/logging"
	"github.com/dmitrijs2005/matchbox/internal/server/auth"
	"github.com/dmitrijs2005/matchbox/internal/server/blobstore"
	"github.com/dmitrijs2005/matchbox/internal/server/config"
	"github.com/dmitrijs2005/matchbox/internal/server/metrics"
	"github.com/dmitrijs2005/matchbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/matchbox/internal/server/sweeper"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/matchbox/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *repomanager.Store
	ledger  *ledger.Ledger
	grpc    *gs.GRPCServer
	metrics *metrics.Metrics
	sweeper *sweeper.Sweeper
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, "json", logging.ParseLevel(c.LogLevel))

	if c.SweepInterval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}

	cat, err := catalog.LoadFile(c.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("catalog init error: %w", err)
	}

	store, err := repomanager.Open(ctx, repomanager.Config{
		Backend:       c.StateBackend,
		DSN:           c.DatabaseDSN,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		PebblePath:    c.PebblePath,
	})
	if err != nil {
		return nil, fmt.Errorf("state backend init error: %w", err)
	}

	windows := ledger.Windows{Tick: c.TickUnit, SaveTicks: c.SaveWindowTicks, RevealTicks: c.RevealWindowTicks}
	lg, err := ledger.New(ctx, cat, windows,
		ledger.WithStore(store, common.LedgerStateKey),
		ledger.WithLogger(logger),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ledger init error: %w", err)
	}

	m := metrics.New()
	m.TrackRecords(func() int { return len(lg.List()) })

	opts := []gs.Option{gs.WithMetrics(m)}
	if c.S3Bucket != "" {
		blobs, err := blobstore.NewS3Store(ctx, blobstore.Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			PresignTTL:   c.PresignTTL,
		})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("object storage init error: %w", err)
		}
		opts = append(opts, gs.WithBlobStore(blobs))
	}

	as := auth.NewService(cat, c.SecretKey, c.AccessTokenValidityDuration, logger)

	logger.Info(ctx, "ledger restored",
		"backend", store.Backend, "records", len(lg.List()),
		"tick", c.TickUnit.String(), "save_ticks", c.SaveWindowTicks, "reveal_ticks", c.RevealWindowTicks)

	return &App{
		config:  c,
		logger:  logger,
		store:   store,
		ledger:  lg,
		grpc:    gs.NewGRPCServer(c.EndpointAddrGRPC, logger, lg, cat, as, opts...),
		metrics: m,
		sweeper: sweeper.New(lg, c.SweepInterval, nil, m, logger),
	}, nil
}

// Run blocks until ctx is cancelled or one of the components fails, then
// closes the state backend.
func (app *App) Run(ctx context.Context) error {

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpc.Run(ctx)
	})

	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			return app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger)
		})
	}

	g.Go(func() error {
		return app.sweeper.Run(ctx)
	})

	err := g.Wait()

	if cerr := app.store.Close(); cerr != nil {
		app.logger.Error(ctx, "closing state backend", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
