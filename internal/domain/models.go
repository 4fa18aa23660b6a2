package domain

import "time"

// QualityMetrics is the fixed set of per-call indicators. SentimentScore is
// overwritten with the scorer output for the most recent user message; the
// network figures are synthetic placeholders seeded at call start.
type QualityMetrics struct {
	NetworkLatencyMs float64 `json:"network_latency"`
	PacketLoss       float64 `json:"packet_loss"`
	JitterMs         float64 `json:"jitter"`
	SentimentScore   float64 `json:"sentiment_score"`
}

// DefaultQualityMetrics returns the baseline recorded when a call starts.
func DefaultQualityMetrics() QualityMetrics {
	return QualityMetrics{
		NetworkLatencyMs: 50,
		PacketLoss:       0.01,
		JitterMs:         5,
		SentimentScore:   0.0,
	}
}

// Note is a timestamped annotation attached to a simulation.
type Note struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Simulation is one simulated customer-service call.
type Simulation struct {
	ID             string           `json:"id"`
	Status         SimulationStatus `json:"status"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        *time.Time       `json:"end_time,omitempty"`
	TransferredTo  string           `json:"transferred_to,omitempty"`
	TransferReason string           `json:"transfer_reason,omitempty"`
	Notes          []Note           `json:"notes"`
	Tags           []string         `json:"tags"`
	QualityMetrics QualityMetrics   `json:"quality_metrics"`
	// ResolutionTime is whole seconds between start and end; 0 while in progress.
	ResolutionTime int `json:"resolution_time"`
}

// Message is a single conversation turn within a simulation.
type Message struct {
	MessageID    int64     `json:"message_id"`
	SimulationID string    `json:"simulation_id"`
	Content      string    `json:"content"`
	Sender       Sender    `json:"sender"`
	Timestamp    time.Time `json:"timestamp"`
}

// MessageView is the read-only projection of a message in call details.
type MessageView struct {
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// SimulationDetails is the full read-only projection of one call.
type SimulationDetails struct {
	ID             string           `json:"id"`
	Status         SimulationStatus `json:"status"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        *time.Time       `json:"end_time,omitempty"`
	ResolutionTime int              `json:"resolution_time"`
	QualityMetrics QualityMetrics   `json:"quality_metrics"`
	Messages       []MessageView    `json:"messages"`
	Notes          []Note           `json:"notes"`
	Tags           []string         `json:"tags"`
	SentimentScore float64          `json:"sentiment_score"`
}

// SimulationSummary is the reduced projection used by listings.
type SimulationSummary struct {
	ID             string           `json:"id"`
	Status         SimulationStatus `json:"status"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        *time.Time       `json:"end_time,omitempty"`
	ResolutionTime int              `json:"resolution_time"`
	SentimentScore float64          `json:"sentiment_score"`
}

// CallMetrics is the per-call metric projection served by analytics.
type CallMetrics struct {
	Duration       int            `json:"duration"`
	SentimentScore float64        `json:"sentiment_score"`
	QualityMetrics QualityMetrics `json:"quality_metrics"`
}

// DailyStats aggregates the calls started on a single day.
type DailyStats struct {
	TotalCalls     int     `json:"total_calls"`
	CompletedCalls int     `json:"completed_calls"`
	AvgDuration    float64 `json:"avg_duration"`
	AvgSentiment   float64 `json:"avg_sentiment"`
}
