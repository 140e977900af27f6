// Package sweeper runs the ledger expiry sweep on a fixed interval.
package sweeper

import (
	"context"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/logging"
)

// Expirer is the ledger operation the sweeper drives.
type Expirer interface {
	ExpireSweep(ctx context.Context, now time.Time) ([]string, error)
}

// Observer is notified after each successful sweep.
type Observer interface {
	ObserveSweep(transitioned int)
}

type Sweeper struct {
	ledger   Expirer
	interval time.Duration
	now      func() time.Time
	observer Observer
	logger   logging.Logger
}

func New(ledger Expirer, interval time.Duration, now func() time.Time, observer Observer, logger logging.Logger) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		ledger:   ledger,
		interval: interval,
		now:      now,
		observer: observer,
		logger:   logger.With("module", "sweeper"),
	}
}

// Run sweeps once per interval until ctx is cancelled. Sweep errors are
// logged and the loop keeps going.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Starting sweeper", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping sweeper...")
			return nil
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep at the current clock reading.
func (s *Sweeper) SweepOnce(ctx context.Context) []string {
	ids, err := s.ledger.ExpireSweep(ctx, s.now())
	if err != nil {
		s.logger.Error(ctx, "expiry sweep failed", "error", err)
		return nil
	}
	if s.observer != nil {
		s.observer.ObserveSweep(len(ids))
	}
	if len(ids) > 0 {
		s.logger.Info(ctx, "records expired", "ids", ids)
	}
	return ids
}
