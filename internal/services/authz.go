package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

// Authz is the caller as resolved at the HTTP boundary. Services never
// re-derive admin status; they trust IsAdmin.
type Authz struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func AuthzFromContext(ctx context.Context) Authz {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return Authz{}
	}
	return Authz{UserID: rd.UserID, IsAdmin: rd.IsAdmin}
}

func (a Authz) Anonymous() bool { return a.UserID == uuid.Nil }
