package bus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventQuizAttempted          = "quiz.attempted"
	EventLessonCompletionChange = "lesson.completion_changed"
	EventEntitlementGranted     = "entitlement.granted"
	EventEntitlementRevoked     = "entitlement.revoked"
)

// Event is a learner-facing change. Data is event specific JSON.
type Event struct {
	Type   string          `json:"type"`
	UserID uuid.UUID       `json:"user_id"`
	Data   json.RawMessage `json:"data,omitempty"`
	At     time.Time       `json:"at"`
}

func NewEvent(typ string, userID uuid.UUID, data any) (Event, error) {
	ev := Event{Type: typ, UserID: userID, At: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, err
		}
		ev.Data = raw
	}
	return ev, nil
}

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	StartForwarder(ctx context.Context, onEvent func(ev Event)) error
	Close() error
}
