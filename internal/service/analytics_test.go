package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetCallMetrics(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &stubGenerator{reply: "ok"})

	start := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	now := start
	svc.now = func() time.Time { return now }

	id, err := svc.StartSimulation(ctx)
	if err != nil {
		t.Fatalf("StartSimulation failed: %v", err)
	}
	if _, err := svc.ProcessMessage(ctx, id, "this is terrible"); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	now = start.Add(30 * time.Second)
	if err := svc.EndSimulation(ctx, id); err != nil {
		t.Fatalf("EndSimulation failed: %v", err)
	}

	metrics, err := svc.GetCallMetrics(ctx, id)
	if err != nil {
		t.Fatalf("GetCallMetrics failed: %v", err)
	}
	if metrics.Duration != 30 {
		t.Fatalf("expected duration 30, got %d", metrics.Duration)
	}
	if metrics.SentimentScore != -1.0 {
		t.Fatalf("expected sentiment -1.0, got %f", metrics.SentimentScore)
	}
	if metrics.QualityMetrics.NetworkLatencyMs != 50 {
		t.Fatalf("unexpected quality metrics: %+v", metrics.QualityMetrics)
	}
}

func TestGetCallMetricsNotFound(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{reply: "ok"})

	_, err := svc.GetCallMetrics(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetDailyStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &stubGenerator{reply: "ok"})

	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	now := day.Add(9 * time.Hour)
	svc.now = func() time.Time { return now }

	first, err := svc.StartSimulation(ctx)
	if err != nil {
		t.Fatalf("StartSimulation failed: %v", err)
	}
	if _, err := svc.ProcessMessage(ctx, first, "great service, thanks"); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	now = now.Add(20 * time.Second)
	if err := svc.EndSimulation(ctx, first); err != nil {
		t.Fatalf("EndSimulation failed: %v", err)
	}

	now = day.Add(10 * time.Hour)
	second, err := svc.StartSimulation(ctx)
	if err != nil {
		t.Fatalf("StartSimulation failed: %v", err)
	}
	if err := svc.TransferCall(ctx, second, "billing", "escalation"); err != nil {
		t.Fatalf("TransferCall failed: %v", err)
	}

	// A call on another day stays out of the aggregate.
	now = day.Add(26 * time.Hour)
	if _, err := svc.StartSimulation(ctx); err != nil {
		t.Fatalf("StartSimulation failed: %v", err)
	}

	stats, err := svc.GetDailyStats(ctx, day)
	if err != nil {
		t.Fatalf("GetDailyStats failed: %v", err)
	}
	if stats.TotalCalls != 2 {
		t.Fatalf("expected 2 calls, got %d", stats.TotalCalls)
	}
	if stats.CompletedCalls != 1 {
		t.Fatalf("expected 1 completed call, got %d", stats.CompletedCalls)
	}
	if stats.AvgDuration != 10 {
		t.Fatalf("expected avg duration 10, got %f", stats.AvgDuration)
	}
	if stats.AvgSentiment != 0.5 {
		t.Fatalf("expected avg sentiment 0.5, got %f", stats.AvgSentiment)
	}
}

func TestGetDailyStatsEmptyDay(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{reply: "ok"})

	stats, err := svc.GetDailyStats(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetDailyStats failed: %v", err)
	}
	if stats.TotalCalls != 0 || stats.AvgDuration != 0 || stats.AvgSentiment != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
