package service

import (
	"context"
	"fmt"
	"time"

	"github.com/callcentersim/callsim/internal/domain"
)

// GetCallMetrics returns the metric projection for one call.
func (s *Service) GetCallMetrics(ctx context.Context, simulationID string) (*domain.CallMetrics, error) {
	sim, err := s.load(ctx, simulationID)
	if err != nil {
		return nil, err
	}

	return &domain.CallMetrics{
		Duration:       sim.ResolutionTime,
		SentimentScore: sim.QualityMetrics.SentimentScore,
		QualityMetrics: sim.QualityMetrics,
	}, nil
}

// GetDailyStats aggregates the calls started on the given day (UTC).
func (s *Service) GetDailyStats(ctx context.Context, day time.Time) (*domain.DailyStats, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	sims, err := s.store.ListSimulationsStartedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}

	stats := &domain.DailyStats{TotalCalls: len(sims)}
	if len(sims) == 0 {
		return stats, nil
	}

	var totalDuration, totalSentiment float64
	for _, sim := range sims {
		if sim.Status == domain.StatusCompleted {
			stats.CompletedCalls++
		}
		totalDuration += float64(sim.ResolutionTime)
		totalSentiment += sim.QualityMetrics.SentimentScore
	}
	stats.AvgDuration = round2(totalDuration / float64(len(sims)))
	stats.AvgSentiment = round2(totalSentiment / float64(len(sims)))
	return stats, nil
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int(v*100-0.5)) / 100
	}
	return float64(int(v*100+0.5)) / 100
}
