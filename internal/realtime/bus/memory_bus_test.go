package bus

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestMemoryBusDeliversAndRetains(t *testing.T) {
	b := NewMemoryBus(true)
	var got []Event
	if err := b.StartForwarder(context.Background(), func(ev Event) { got = append(got, ev) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	userID := uuid.New()
	ev, err := NewEvent(EventQuizAttempted, userID, map[string]any{"score": 75})
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if err := b.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(got) != 1 || got[0].Type != EventQuizAttempted || got[0].UserID != userID {
		t.Fatalf("delivered: want=1 quiz.attempted got=%+v", got)
	}
	if string(got[0].Data) != `{"score":75}` {
		t.Fatalf("data: want={\"score\":75} got=%s", got[0].Data)
	}
	if n := len(b.Events()); n != 1 {
		t.Fatalf("retained: want=1 got=%d", n)
	}
}
