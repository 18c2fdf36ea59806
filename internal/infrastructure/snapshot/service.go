// Package snapshot persists window session state with debounced writes.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// Service is a debounced session sink. Snapshots arrive in generation order
// from the shell; the service keeps only the latest per window and writes it
// to the repository after a quiet interval, so a burst of mutations costs a
// single database write.
type Service struct {
	repo     repository.SessionStateRepository
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending map[entity.WindowID]*entity.SessionState
	ctx     context.Context
	cancel  context.CancelFunc
}

var _ port.SessionSink = (*Service)(nil)

// NewService creates a snapshot service writing through repo.
func NewService(repo repository.SessionStateRepository, intervalMs int) *Service {
	if intervalMs <= 0 {
		intervalMs = 2000
	}
	return &Service{
		repo:     repo,
		interval: time.Duration(intervalMs) * time.Millisecond,
		pending:  make(map[entity.WindowID]*entity.SessionState),
	}
}

// Start begins accepting snapshots.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	logging.FromContext(ctx).Debug().Dur("interval", s.interval).Msg("snapshot service started")
}

// UpdateWindow stores the snapshot and schedules a debounced write.
func (s *Service) UpdateWindow(_ context.Context, state *entity.SessionState) error {
	if state == nil || state.WindowID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[state.WindowID] = state

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		if ctx == nil {
			return
		}
		if err := s.savePending(ctx); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to save session snapshot")
		}
	})
	return nil
}

// SaveNow flushes pending snapshots immediately, for shutdown.
func (s *Service) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.savePending(ctx)
}

// Stop stops the service and writes final state.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.SaveNow(ctx)
}

func (s *Service) savePending(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[entity.WindowID]*entity.SessionState)
	s.mu.Unlock()

	var firstErr error
	for windowID, state := range batch {
		if err := s.repo.SaveSnapshot(ctx, state); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			// Put it back so the next flush retries with this or newer state.
			s.mu.Lock()
			if _, ok := s.pending[windowID]; !ok {
				s.pending[windowID] = state
			}
			s.mu.Unlock()
		}
	}
	return firstErr
}
