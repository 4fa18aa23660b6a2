// Package store provides persistence for simulations and their message logs.
package store

import (
	"context"
	"time"

	"github.com/callcentersim/callsim/internal/domain"
)

// Store is the persistence contract consumed by the simulation service.
// Get returns (nil, nil) when the id resolves to no record. All mutations are
// transactional at single-simulation granularity.
type Store interface {
	CreateSimulation(ctx context.Context, sim *domain.Simulation) error
	GetSimulation(ctx context.Context, simulationID string) (*domain.Simulation, error)
	UpdateSimulation(ctx context.Context, sim *domain.Simulation) error

	// ApplyTurn durably applies one conversation turn: the given messages are
	// appended and, when sim is non-nil, its quality metrics are updated, all
	// in a single transaction so a failed turn leaves no partial rows.
	ApplyTurn(ctx context.Context, sim *domain.Simulation, messages []domain.Message) error

	ListMessages(ctx context.Context, simulationID string) ([]domain.Message, error)
	ListSimulations(ctx context.Context) ([]domain.Simulation, error)
	ListSimulationsStartedBetween(ctx context.Context, from, to time.Time) ([]domain.Simulation, error)

	Close() error
}
