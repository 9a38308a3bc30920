package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything the service announces on the NATS bus.
type Event interface {
	Subject() string
	Payload() interface{}
}

// TreeChangedEvent is emitted after a node was created, moved or deleted.
type TreeChangedEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	NodeID     uuid.UUID `json:"node_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewTreeChangedEvent(userID, nodeID uuid.UUID, action string) TreeChangedEvent {
	return TreeChangedEvent{
		UserID:     userID,
		NodeID:     nodeID,
		Action:     action,
		OccurredAt: time.Now(),
	}
}

func (e TreeChangedEvent) Subject() string {
	return "events.tree.changed"
}

func (e TreeChangedEvent) Payload() interface{} {
	return e
}
