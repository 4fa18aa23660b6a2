package service

import (
	"context"
	"log"
	"unicode/utf8"

	"github.com/callcentersim/callsim/internal/domain"
)

// Fixed replies returned when a turn cannot be completed. The two strings are
// distinct so callers can tell a generator failure from a persistence failure.
const (
	GeneratorApology  = "I apologize, but I'm experiencing technical difficulties. Please try again in a moment."
	ProcessingApology = "I apologize, but I'm having trouble processing your message. Could you please try again?"
)

// maxMessageLen is the stored length cap; longer input is truncated.
const maxMessageLen = 1000

// ProcessMessage appends one user turn to an active call, obtains the agent
// reply and updates the call's sentiment. The generator is treated as
// unreliable: its failure is recovered locally with a fixed apology, the user
// message is still recorded and sentiment is left unchanged for the turn.
func (s *Service) ProcessMessage(ctx context.Context, simulationID, message string) (string, error) {
	lock := s.lockSession(simulationID)
	defer s.unlockSession(simulationID, lock)

	sim, err := s.loadActive(ctx, simulationID)
	if err != nil {
		if err == ErrNotFound || err == ErrNotActive {
			log.Printf("WARN: attempted to process message for invalid simulation: %s", simulationID)
		}
		return "", err
	}

	if len(message) > maxMessageLen {
		// Back off to a rune boundary so the cut never stores invalid UTF-8.
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}
		message = message[:cut]
	}

	log.Printf("Processing message for simulation %s", simulationID)

	userMsg := domain.Message{
		SimulationID: simulationID,
		Content:      message,
		Sender:       domain.SenderUser,
		Timestamp:    s.now(),
	}

	genCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	reply, err := s.generator.Generate(genCtx, message)
	if err != nil {
		log.Printf("ERROR: response generation failed for simulation %s: %v", simulationID, err)
		// Record the user's turn anyway; no agent message, sentiment untouched.
		if err := s.store.ApplyTurn(ctx, nil, []domain.Message{userMsg}); err != nil {
			log.Printf("ERROR: failed to record user message for simulation %s: %v", simulationID, err)
			return ProcessingApology, nil
		}
		return GeneratorApology, nil
	}

	agentMsg := domain.Message{
		SimulationID: simulationID,
		Content:      reply,
		Sender:       domain.SenderAgent,
		Timestamp:    s.now(),
	}

	sim.QualityMetrics.SentimentScore = s.scorer.Score(message)

	if err := s.store.ApplyTurn(ctx, sim, []domain.Message{userMsg, agentMsg}); err != nil {
		log.Printf("ERROR: failed to persist turn for simulation %s: %v", simulationID, err)
		return ProcessingApology, nil
	}

	s.publish(simulationID, domain.CallEvent{
		Type:         domain.EventMessageProcessed,
		SimulationID: simulationID,
		Ts:           s.now().UnixMilli(),
		Sender:       domain.SenderAgent,
		Content:      reply,
		Sentiment:    sim.QualityMetrics.SentimentScore,
	})

	return reply, nil
}
