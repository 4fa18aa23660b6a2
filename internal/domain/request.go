package domain

// StartSimulationResponse is returned when a new call is started.
type StartSimulationResponse struct {
	SimulationID string `json:"simulation_id"`
}

// EndSimulationRequest asks to end an active call.
type EndSimulationRequest struct {
	SimulationID string `json:"simulation_id"`
}

// ProcessMessageRequest submits one user turn to an active call.
type ProcessMessageRequest struct {
	SimulationID string `json:"simulation_id"`
	Message      string `json:"message"`
}

// ProcessMessageResponse carries the agent reply text.
type ProcessMessageResponse struct {
	Response string `json:"response"`
}

// TransferCallRequest asks to hand the call to another agent or queue.
type TransferCallRequest struct {
	Agent  string `json:"agent"`
	Reason string `json:"reason"`
}

// AddNoteRequest attaches an annotation to a call.
type AddNoteRequest struct {
	Note string `json:"note"`
}

// AddTagRequest attaches a tag to a call.
type AddTagRequest struct {
	Tag string `json:"tag"`
}

// StatusResponse is the generic success envelope.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CallEvent is pushed to live listeners subscribed to a simulation.
type CallEvent struct {
	Type         string  `json:"type"`
	SimulationID string  `json:"simulation_id"`
	Ts           int64   `json:"ts"`
	Sender       Sender  `json:"sender,omitempty"`
	Content      string  `json:"content,omitempty"`
	Sentiment    float64 `json:"sentiment,omitempty"`
	Agent        string  `json:"agent,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

// Call event types.
const (
	EventCallStarted      = "call_started"
	EventMessageProcessed = "message_processed"
	EventCallEnded        = "call_ended"
	EventCallTransferred  = "call_transferred"
)
