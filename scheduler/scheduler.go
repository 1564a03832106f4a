package scheduler

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Purger removes expired records and reports how many went away.
// session.Store and leaderboard.MemoryCache both satisfy it.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// sizer is implemented by in-process stores that can report their size.
type sizer interface {
	Len() int
}

const tickTimeout = 30 * time.Second

// Scheduler periodically purges expired sessions and cached leaderboards.
type Scheduler struct {
	purgers map[string]Purger
	names   []string
	log     *logrus.Logger
	cron    *cron.Cron
	now     func() time.Time

	mu sync.Mutex // one tick at a time
}

// New creates a Scheduler. Purgers run in the order they are registered.
func New(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		purgers: make(map[string]Purger),
		log:     log,
		now:     time.Now,
	}
}

// Register adds a purger under name. A nil purger is ignored so optional
// backends can be passed straight through.
func (s *Scheduler) Register(name string, p Purger) {
	if p == nil {
		return
	}
	if _, ok := s.purgers[name]; !ok {
		s.names = append(s.names, name)
	}
	s.purgers[name] = p
}

// Start schedules Tick using a cron expression such as "@every 10m".
func (s *Scheduler) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, s.runScheduled); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	s.cron = c
	c.Start()
	s.log.WithField("schedule", schedule).Info("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running tick to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()
	if _, err := s.Tick(ctx); err != nil {
		s.log.WithError(err).Error("scheduled purge failed")
	}
}

// HandleTick is an HTTP handler that triggers a scheduler tick.
func (s *Scheduler) HandleTick(w http.ResponseWriter, r *http.Request) {
	s.log.Info("tick triggered via HTTP")

	purged, err := s.Tick(r.Context())
	if err != nil {
		s.log.WithError(err).Error("tick failed")
		http.Error(w, "scheduler tick failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK: purged %d records", purged)
}

// Tick runs every purger once and returns the total number of records
// removed. A failing purger does not stop the others; the first error is
// returned after all have run.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	total := 0
	var firstErr error
	for _, name := range s.names {
		n, err := s.purgers[name].PurgeExpired(ctx, now)
		if err != nil {
			s.log.WithError(err).WithField("purger", name).Warn("purge failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to purge %s: %w", name, err)
			}
			continue
		}
		if n > 0 {
			fields := logrus.Fields{"purger": name, "purged": n}
			if sz, ok := s.purgers[name].(sizer); ok {
				fields["remaining"] = sz.Len()
			}
			s.log.WithFields(fields).Info("purged expired records")
		}
		total += n
	}
	return total, firstErr
}
