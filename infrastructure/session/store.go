// Package session keeps one application instance per browser session.
package session

import (
	"context"
	"sync"
	"time"

	"postviewer/application/app"
	"postviewer/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Factory builds the application for a new session.
type Factory func() *app.Orchestrator

// Store maps session IDs to their application. Entries expire after ttl
// without access.
type Store struct {
	mu      sync.RWMutex
	items   map[string]*entry
	ttl     time.Duration
	factory Factory
	metrics *observability.Collector
	logger  *zap.Logger
	now     func() time.Time
}

type entry struct {
	app       *app.Orchestrator
	expiresAt time.Time
}

// NewStore creates a session store. metrics may be nil.
func NewStore(ttl time.Duration, factory Factory, metrics *observability.Collector, logger *zap.Logger) *Store {
	return &Store{
		items:   make(map[string]*entry),
		ttl:     ttl,
		factory: factory,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the live application for id and extends its lifetime.
func (s *Store) Get(id string) (*app.Orchestrator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	e.expiresAt = s.now().Add(s.ttl)
	return e.app, true
}

// GetOrCreate returns the application for id, or starts a new session when
// id is not a live session. The returned ID is the one to hand back to the
// browser.
func (s *Store) GetOrCreate(id string) (string, *app.Orchestrator, bool) {
	if _, err := uuid.Parse(id); err == nil {
		if a, ok := s.Get(id); ok {
			return id, a, false
		}
	}

	id = uuid.NewString()
	a := s.factory()

	s.mu.Lock()
	s.items[id] = &entry{app: a, expiresAt: s.now().Add(s.ttl)}
	n := len(s.items)
	s.mu.Unlock()

	s.report(n)
	s.logger.Debug("Session created", zap.String("session", id))
	return id, a, true
}

// Delete ends a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	n := len(s.items)
	s.mu.Unlock()
	s.report(n)
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	now := s.now()
	removed := 0
	for id, e := range s.items {
		if now.After(e.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	n := len(s.items)
	s.mu.Unlock()

	s.report(n)
	if removed > 0 {
		s.logger.Debug("Expired sessions removed", zap.Int("removed", removed), zap.Int("remaining", n))
	}
	return removed
}

// Run sweeps expired sessions every minute until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Store) report(n int) {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(n))
	}
}
