package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/ledger"
	"github.com/dmitrijs2005/matchbox/internal/logging"
	"github.com/dmitrijs2005/matchbox/internal/server/auth"
	"github.com/dmitrijs2005/matchbox/internal/server/blobstore"
	"github.com/dmitrijs2005/matchbox/internal/server/metrics"
	"google.golang.org/grpc"
)

// BlobStore presigns object URLs for audio clips.
type BlobStore interface {
	PresignPut(ctx context.Context, key string) (blobstore.Presigned, error)
	PresignGet(ctx context.Context, key string) (blobstore.Presigned, error)
}

type GRPCServer struct {
	address string
	logger  logging.Logger
	ledger  *ledger.Ledger
	catalog *catalog.Catalog
	auth    *auth.Service
	blobs   BlobStore
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*GRPCServer)

// WithBlobStore enables presigned uploads and playback URLs.
func WithBlobStore(b BlobStore) Option {
	return func(s *GRPCServer) { s.blobs = b }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *GRPCServer) { s.metrics = m }
}

// WithClock replaces time.Now as the source of action timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *GRPCServer) { s.now = now }
}

func NewGRPCServer(a string, l logging.Logger, lg *ledger.Ledger, cat *catalog.Catalog, as *auth.Service, opts ...Option) *GRPCServer {
	s := &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		ledger:  lg,
		catalog: cat,
		auth:    as,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GRPCServer) newServer() *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{}
	if s.metrics != nil {
		interceptors = append(interceptors, s.metrics.UnaryInterceptor())
	}
	interceptors = append(interceptors, s.accessTokenInterceptor)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	api.RegisterMatchboxServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
