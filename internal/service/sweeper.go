package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/metrics"
)

// SessionSweeper periodically deletes expired sessions.
type SessionSweeper struct {
	sessions SessionStore
	clock    clockwork.Clock
	interval time.Duration
	metrics  metrics.Recorder
	logger   zerolog.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewSessionSweeper constructs a sweeper that runs every interval.
func NewSessionSweeper(sessions SessionStore, clock clockwork.Clock, interval time.Duration, recorder metrics.Recorder, logger zerolog.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		clock:    clock,
		interval: interval,
		metrics:  recorder,
		logger:   logger.With().Str("component", "session_sweeper").Logger(),
	}
}

// Start launches the sweep loop. It returns an error if already running.
func (s *SessionSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("session sweeper already running")
	}
	s.running = true
	stop := make(chan struct{})
	s.stopChan = stop

	ticker := s.clock.NewTicker(s.interval)
	s.wg.Add(1)
	go s.run(ctx, ticker, stop)

	s.logger.Info().Dur("interval", s.interval).Msg("session sweeper started")
	return nil
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (s *SessionSweeper) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("session sweeper not running")
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info().Msg("session sweeper stopped")
	return nil
}

func (s *SessionSweeper) run(ctx context.Context, ticker clockwork.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.Chan():
			s.Sweep(ctx)
		}
	}
}

// Sweep deletes every session that has expired and returns the count.
func (s *SessionSweeper) Sweep(ctx context.Context) int64 {
	n, err := s.sessions.DeleteExpired(ctx, s.clock.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to delete expired sessions")
		return 0
	}
	if n > 0 {
		s.metrics.SessionsSwept(n)
		s.logger.Info().Int64("deleted", n).Msg("expired sessions removed")
	}
	return n
}
