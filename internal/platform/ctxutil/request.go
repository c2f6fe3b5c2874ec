package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData is resolved once by the auth middleware and read everywhere else.
// IsAdmin is the only authorization signal downstream code may consult.
type RequestData struct {
	TokenString string
	ExternalID  string
	UserID      uuid.UUID
	Email       string
	Name        string
	IsAdmin     bool
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
