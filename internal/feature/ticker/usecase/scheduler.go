package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SchedulerConfig holds scheduler-wide settings.
type SchedulerConfig struct {
	Partitions []Partition // Polling partitions, enumerated at startup
	Workers    int         // Max cycles executing concurrently (default: 4)
}

// Scheduler drives one recurring polling cycle per partition. Each firing is
// dispatched to a bounded worker pool so a slow cycle never delays the timer,
// and starting a new cycle for a partition cancels that partition's previous
// in-flight cycle, bounding outstanding upstream requests to one per
// partition.
type Scheduler struct {
	cfg    SchedulerConfig
	stream *StreamUsecase

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sem    chan struct{}

	mu       sync.Mutex
	inflight map[string]*cycleHandle
}

// cycleHandle is the cancellation bookkeeping for one outstanding cycle.
// Only the handle is retained, never the request itself.
type cycleHandle struct {
	cancel context.CancelFunc
}

// NewScheduler creates a Scheduler for the given partitions.
func NewScheduler(cfg SchedulerConfig, stream *StreamUsecase) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Scheduler{
		cfg:      cfg,
		stream:   stream,
		sem:      make(chan struct{}, cfg.Workers),
		inflight: make(map[string]*cycleHandle),
	}
}

// Start launches one timer goroutine per partition. It returns immediately;
// cycles run until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	for _, p := range s.cfg.Partitions {
		s.wg.Add(1)
		go s.run(p)
	}

	slog.Info("ticker scheduler started",
		"partitions", len(s.cfg.Partitions),
		"workers", cap(s.sem),
	)
}

// Stop cancels every outstanding cycle and waits for the timer goroutines and
// workers to drain.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	slog.Info("ticker scheduler stopped")
}

// run is the timer loop for a single partition. The cycle work itself never
// executes on this goroutine.
func (s *Scheduler) run(p Partition) {
	defer s.wg.Done()

	// Partitions fire staggered by their offset to spread upstream load.
	if p.Offset > 0 {
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(p.Offset):
		}
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	s.dispatch(p)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.dispatch(p)
		}
	}
}

// dispatch cancels the partition's previous in-flight cycle, registers a new
// one, and hands it to the worker pool.
func (s *Scheduler) dispatch(p Partition) {
	cctx, cancel := context.WithCancel(s.ctx)
	h := &cycleHandle{cancel: cancel}

	s.mu.Lock()
	if prev := s.inflight[p.Name]; prev != nil {
		// The previous cycle is still outstanding; its late result, if any,
		// must never reach the caches.
		prev.cancel()
		slog.Debug("cancelled stale cycle", "partition", p.Name)
	}
	s.inflight[p.Name] = h
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		select {
		case s.sem <- struct{}{}:
		case <-cctx.Done():
			s.clear(p.Name, h)
			return
		}
		defer func() { <-s.sem }()

		s.stream.RunCycle(cctx, p)
		s.clear(p.Name, h)
	}()
}

// clear removes the handle if it still belongs to the finished cycle.
func (s *Scheduler) clear(name string, h *cycleHandle) {
	s.mu.Lock()
	if s.inflight[name] == h {
		delete(s.inflight, name)
	}
	s.mu.Unlock()
}
