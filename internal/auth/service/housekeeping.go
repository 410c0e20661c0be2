package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/store"
)

// HousekeepingService periodically deletes expired magic link tokens so the
// store does not grow with every login attempt. Live traffic never waits on
// the sweep; consume and peek filter by expiry themselves.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper with the given interval.
// Non-positive intervals fall back to one minute.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut it
// down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down and blocks until any in-progress sweep
// finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// First sweep immediately so a restart clears any backlog.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	deleted, err := s.Store.Tokens().DeleteExpiredTokens(ctx, time.Now().UTC())
	if err != nil {
		s.Logger.Error("failed to sweep expired tokens", "error", err)
		return
	}

	if deleted > 0 {
		s.Logger.Debug("swept expired tokens", "deleted", deleted)
	}
}
