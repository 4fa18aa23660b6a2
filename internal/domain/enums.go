// Package domain defines the core domain models for the call simulator.
package domain

// SimulationStatus represents the lifecycle state of a simulation.
type SimulationStatus string

const (
	StatusInProgress  SimulationStatus = "in-progress"
	StatusCompleted   SimulationStatus = "completed"
	StatusTransferred SimulationStatus = "transferred"
)

// Terminal reports whether the status permits no further transitions.
func (s SimulationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusTransferred
}

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)
