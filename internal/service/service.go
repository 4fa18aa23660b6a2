// Package service implements the simulation session lifecycle.
package service

import (
	"sync"
	"time"

	"github.com/callcentersim/callsim/internal/agent"
	"github.com/callcentersim/callsim/internal/config"
	"github.com/callcentersim/callsim/internal/domain"
	"github.com/callcentersim/callsim/internal/sentiment"
	"github.com/callcentersim/callsim/internal/store"
	"github.com/callcentersim/callsim/policy"
)

// EventSink receives live call events. Publishing is best-effort; a sink must
// never block the caller.
type EventSink interface {
	Publish(simulationID string, event interface{})
}

// Service owns the per-simulation state machine and message pipeline.
type Service struct {
	store     store.Store
	generator agent.ResponseGenerator
	scorer    sentiment.Scorer
	policy    *policy.Engine
	events    EventSink
	config    *config.Config

	// now is the clock; replaced in tests.
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// New creates a new simulation service. events may be nil.
func New(st store.Store, generator agent.ResponseGenerator, scorer sentiment.Scorer, policyEngine *policy.Engine, events EventSink, cfg *config.Config) *Service {
	return &Service{
		store:     st,
		generator: generator,
		scorer:    scorer,
		policy:    policyEngine,
		events:    events,
		config:    cfg,
		now:       time.Now,
		locks:     make(map[string]*sessionLock),
	}
}

// sessionLock serializes every operation touching one simulation. refs counts
// holders and waiters so the map entry can be dropped once the last one leaves.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// lockSession acquires the per-simulation lock. Operations on different
// simulations proceed in parallel.
func (s *Service) lockSession(simulationID string) *sessionLock {
	s.mu.Lock()
	l, ok := s.locks[simulationID]
	if !ok {
		l = &sessionLock{}
		s.locks[simulationID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

// unlockSession releases the lock and removes the map entry when nobody else
// holds or waits on it.
func (s *Service) unlockSession(simulationID string, l *sessionLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, simulationID)
	}
	s.mu.Unlock()
}

func (s *Service) publish(simulationID string, event domain.CallEvent) {
	if s.events == nil {
		return
	}
	s.events.Publish(simulationID, event)
}
