package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/realtime/bus"
)

// PublishEvent is fire and forget: a bus outage never fails the write that caused it.
func PublishEvent(ctx context.Context, log *logger.Logger, b bus.Bus, typ string, userID uuid.UUID, data any) {
	if b == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ev, err := bus.NewEvent(typ, userID, data)
	if err != nil {
		log.Warn("encode event failed", "type", typ, "error", err)
		return
	}
	if err := b.Publish(context.WithoutCancel(ctx), ev); err != nil {
		log.Warn("publish event failed", "type", typ, "error", err)
	}
}
