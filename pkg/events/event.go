package events

import "time"

const (
	// IntakeCompleted fires when a flow conversation finishes with a valid record.
	IntakeCompleted = "INTAKE_COMPLETED"
	// DocumentIngested fires after a document has been chunked and embedded.
	DocumentIngested = "DOCUMENT_INGESTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INTAKE_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a generic implementation usable for most publish sites.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewIntakeCompleted builds the event emitted when a flow session completes.
func NewIntakeCompleted(sessionID string, answers map[string]string) BaseEvent {
	data := map[string]interface{}{
		"session_id": sessionID,
	}
	for k, v := range answers {
		data[k] = v
	}
	return BaseEvent{
		Type:       IntakeCompleted,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
