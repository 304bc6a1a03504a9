package sync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/medialib/internal/store"
)

// Destination is the interface for a sync target (S3, local file).
type Destination interface {
	// Name identifies the destination in logs.
	Name() string
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler runs periodic syncs to one or more destinations.
type Scheduler struct {
	store        store.Store
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports the store's presets to the
// given destinations at the specified interval.
func NewScheduler(s store.Store, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic sync. It runs an initial sync immediately, then
// on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.ctx = ctx
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current sync (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	s.syncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

// SyncOnce exports once and writes to every destination. It returns the
// first error but still attempts every destination.
func (s *Scheduler) SyncOnce(ctx context.Context) error {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.store, &buf); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	data := buf.Bytes()

	var firstErr error
	for _, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("sync destination write failed", "destination", dest.Name(), "err", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("write %s: %w", dest.Name(), err)
			}
		}
	}

	s.logger.Info("sync completed", "destinations", len(s.destinations), "bytes", len(data))
	return firstErr
}

func (s *Scheduler) syncOnce(ctx context.Context) {
	if err := s.SyncOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("sync failed", "err", err)
	}
}
