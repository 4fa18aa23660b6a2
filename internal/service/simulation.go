package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/callcentersim/callsim/internal/domain"
	"github.com/callcentersim/callsim/policy"
)

// StartSimulation creates a new call with a fresh identifier and the metric
// baseline, persists it and returns the identifier.
func (s *Service) StartSimulation(ctx context.Context) (string, error) {
	simulationID := uuid.New().String()
	sim := &domain.Simulation{
		ID:             simulationID,
		Status:         domain.StatusInProgress,
		StartTime:      s.now(),
		Notes:          []domain.Note{},
		Tags:           []string{},
		QualityMetrics: domain.DefaultQualityMetrics(),
	}

	if err := s.store.CreateSimulation(ctx, sim); err != nil {
		log.Printf("ERROR: failed to start simulation: %v", err)
		return "", fmt.Errorf("failed to start simulation: %w", err)
	}

	s.publish(simulationID, domain.CallEvent{
		Type:         domain.EventCallStarted,
		SimulationID: simulationID,
		Ts:           s.now().UnixMilli(),
	})

	return simulationID, nil
}

// EndSimulation moves an active call to completed and derives its resolution
// time. Returns ErrNotFound or ErrNotActive when the transition is not valid.
func (s *Service) EndSimulation(ctx context.Context, simulationID string) error {
	lock := s.lockSession(simulationID)
	defer s.unlockSession(simulationID, lock)

	sim, err := s.loadActive(ctx, simulationID)
	if err != nil {
		return err
	}

	now := s.now()
	sim.Status = domain.StatusCompleted
	sim.EndTime = &now
	sim.ResolutionTime = int(now.Sub(sim.StartTime).Seconds())

	if err := s.store.UpdateSimulation(ctx, sim); err != nil {
		log.Printf("ERROR: failed to end simulation %s: %v", simulationID, err)
		return fmt.Errorf("failed to end simulation: %w", err)
	}

	s.publish(simulationID, domain.CallEvent{
		Type:         domain.EventCallEnded,
		SimulationID: simulationID,
		Ts:           now.UnixMilli(),
	})

	return nil
}

// TransferCall hands an active call to another agent or queue. The routing
// policy is consulted first; a blocked transfer leaves the call untouched.
func (s *Service) TransferCall(ctx context.Context, simulationID, agentName, reason string) error {
	lock := s.lockSession(simulationID)
	defer s.unlockSession(simulationID, lock)

	sim, err := s.loadActive(ctx, simulationID)
	if err != nil {
		return err
	}

	decision, err := s.policy.Evaluate(ctx, map[string]interface{}{
		"agent":  agentName,
		"reason": reason,
	})
	if err != nil {
		log.Printf("ERROR: transfer policy evaluation failed for %s: %v", simulationID, err)
		return fmt.Errorf("failed to evaluate transfer policy: %w", err)
	}
	if decision == policy.DecisionBlock {
		return ErrTransferBlocked
	}

	now := s.now()
	sim.TransferredTo = agentName
	sim.TransferReason = reason
	sim.Status = domain.StatusTransferred
	sim.EndTime = &now
	sim.ResolutionTime = int(now.Sub(sim.StartTime).Seconds())

	if err := s.store.UpdateSimulation(ctx, sim); err != nil {
		log.Printf("ERROR: failed to transfer call %s: %v", simulationID, err)
		return fmt.Errorf("failed to transfer call: %w", err)
	}

	s.publish(simulationID, domain.CallEvent{
		Type:         domain.EventCallTransferred,
		SimulationID: simulationID,
		Ts:           now.UnixMilli(),
		Agent:        agentName,
		Reason:       reason,
	})

	return nil
}

// AddNote appends an annotation to a call. Permitted in any state.
func (s *Service) AddNote(ctx context.Context, simulationID, note string) error {
	lock := s.lockSession(simulationID)
	defer s.unlockSession(simulationID, lock)

	sim, err := s.load(ctx, simulationID)
	if err != nil {
		return err
	}

	sim.Notes = append(sim.Notes, domain.Note{
		Content:   note,
		Timestamp: s.now(),
	})

	if err := s.store.UpdateSimulation(ctx, sim); err != nil {
		log.Printf("ERROR: failed to add note to %s: %v", simulationID, err)
		return fmt.Errorf("failed to add note: %w", err)
	}
	return nil
}

// AddTag appends a tag to a call unless already present. Re-adding an
// existing tag still succeeds. Permitted in any state.
func (s *Service) AddTag(ctx context.Context, simulationID, tag string) error {
	lock := s.lockSession(simulationID)
	defer s.unlockSession(simulationID, lock)

	sim, err := s.load(ctx, simulationID)
	if err != nil {
		return err
	}

	for _, t := range sim.Tags {
		if t == tag {
			return nil
		}
	}
	sim.Tags = append(sim.Tags, tag)

	if err := s.store.UpdateSimulation(ctx, sim); err != nil {
		log.Printf("ERROR: failed to add tag to %s: %v", simulationID, err)
		return fmt.Errorf("failed to add tag: %w", err)
	}
	return nil
}

// GetSimulationDetails returns the full read-only projection of one call.
func (s *Service) GetSimulationDetails(ctx context.Context, simulationID string) (*domain.SimulationDetails, error) {
	// Two reads; both must see the same committed state of the session.
	lock := s.lockSession(simulationID)
	defer s.unlockSession(simulationID, lock)

	sim, err := s.load(ctx, simulationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	views := make([]domain.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, domain.MessageView{
			Content:   msg.Content,
			Sender:    msg.Sender,
			Timestamp: msg.Timestamp,
		})
	}

	return &domain.SimulationDetails{
		ID:             sim.ID,
		Status:         sim.Status,
		StartTime:      sim.StartTime,
		EndTime:        sim.EndTime,
		ResolutionTime: sim.ResolutionTime,
		QualityMetrics: sim.QualityMetrics,
		Messages:       views,
		Notes:          sim.Notes,
		Tags:           sim.Tags,
		SentimentScore: sim.QualityMetrics.SentimentScore,
	}, nil
}

// GetAllSimulations returns summaries of every call, ordered by start time.
func (s *Service) GetAllSimulations(ctx context.Context) ([]domain.SimulationSummary, error) {
	sims, err := s.store.ListSimulations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}

	summaries := make([]domain.SimulationSummary, 0, len(sims))
	for _, sim := range sims {
		summaries = append(summaries, domain.SimulationSummary{
			ID:             sim.ID,
			Status:         sim.Status,
			StartTime:      sim.StartTime,
			EndTime:        sim.EndTime,
			ResolutionTime: sim.ResolutionTime,
			SentimentScore: sim.QualityMetrics.SentimentScore,
		})
	}
	return summaries, nil
}

// load fetches a simulation, mapping absence to ErrNotFound.
func (s *Service) load(ctx context.Context, simulationID string) (*domain.Simulation, error) {
	sim, err := s.store.GetSimulation(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	if sim == nil {
		return nil, ErrNotFound
	}
	return sim, nil
}

// loadActive fetches a simulation that must still be in progress.
func (s *Service) loadActive(ctx context.Context, simulationID string) (*domain.Simulation, error) {
	sim, err := s.load(ctx, simulationID)
	if err != nil {
		return nil, err
	}
	if sim.Status != domain.StatusInProgress {
		return nil, ErrNotActive
	}
	return sim, nil
}
