package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/pkg/logger"
)

type dispatcher interface {
	Dispatch(ctx context.Context, communicationID string) (*Stats, error)
}

type scheduleSource interface {
	ListScheduledFor(ctx context.Context, date string) ([]*model.Communication, error)
	UpdateStatus(ctx context.Context, id string, status model.CommunicationStatus, sentAt *time.Time) error
}

// Scheduler polls for scheduled communications that have become due and
// dispatches them. The check is level-triggered: a communication is due
// once its scheduled date is today and its scheduled time has passed.
// Dispatching moves it out of the scheduled state, so each one fires once.
type Scheduler struct {
	engine   dispatcher
	comms    scheduleSource
	interval time.Duration
	now      func() time.Time

	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.RWMutex

	lastRunAt  time.Time
	runsCount  int64
	dispatched int64
}

func NewScheduler(engine dispatcher, comms scheduleSource, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		engine:   engine,
		comms:    comms,
		interval: interval,
		now:      time.Now,
	}
}

// WithClock replaces the scheduler's time source. Call before Start.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Warn("scheduler is already running")
		return nil
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	logger.Info("starting scheduler", "interval", s.interval.String())

	go s.run(ctx)

	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneChan)

	s.ProcessDue(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.ProcessDue(ctx)
		case <-s.stopChan:
			logger.Info("scheduler received stop signal")
			return
		case <-ctx.Done():
			logger.Warn("scheduler context cancelled")
			return
		}
	}
}

// ProcessDue runs a single poll cycle. Exported so a due check can also
// be forced outside the ticker.
func (s *Scheduler) ProcessDue(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	s.lastRunAt = now
	s.runsCount++
	runNumber := s.runsCount
	s.mu.Unlock()

	today := now.Format(model.DateLayout)
	timeOfDay := now.Format(model.TimeLayout)

	candidates, err := s.comms.ListScheduledFor(ctx, today)
	if err != nil {
		logger.Error("scheduler query failed", "run", runNumber, "error", err)
		return
	}

	var fired int
	for _, comm := range candidates {
		if comm.ScheduledTime > timeOfDay {
			continue
		}

		_, err := s.engine.Dispatch(ctx, comm.ID)
		if err != nil {
			if errors.Is(err, ErrDispatchInProgress) {
				logger.Warn("scheduled communication already dispatching", "communication_id", comm.ID)
				continue
			}

			logger.Error("scheduled dispatch failed", "communication_id", comm.ID, "error", err)
			if updErr := s.comms.UpdateStatus(ctx, comm.ID, model.CommunicationStatusFailed, nil); updErr != nil {
				logger.Error("failed to mark communication failed", "communication_id", comm.ID, "error", updErr)
			}
			continue
		}

		fired++
	}

	if fired > 0 {
		s.mu.Lock()
		s.dispatched += int64(fired)
		s.mu.Unlock()
	}

	logger.Debug("scheduler cycle finished", "run", runNumber, "candidates", len(candidates), "dispatched", fired)
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		logger.Warn("scheduler is not running")
		return nil
	}
	s.running = false
	stopChan := s.stopChan
	doneChan := s.doneChan
	s.mu.Unlock()

	close(stopChan)
	<-doneChan

	logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status is a snapshot of the scheduler's counters.
type Status struct {
	Running    bool          `json:"running"`
	LastRunAt  time.Time     `json:"last_run_at"`
	RunsCount  int64         `json:"runs_count"`
	Dispatched int64         `json:"dispatched"`
	Interval   time.Duration `json:"interval"`
}

func (s *Scheduler) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Running:    s.running,
		LastRunAt:  s.lastRunAt,
		RunsCount:  s.runsCount,
		Dispatched: s.dispatched,
		Interval:   s.interval,
	}
}
