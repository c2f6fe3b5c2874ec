package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type UserHandler struct {
	users  services.UserService
	access services.AccessService
}

func NewUserHandler(users services.UserService, access services.AccessService) *UserHandler {
	return &UserHandler{users: users, access: access}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	me, err := uh.users.GetMe(ctx, authz.UserID)
	if err != nil {
		response.RespondAPIError(c, "get_me_failed", err)
		return
	}
	ents, err := uh.access.ListEntitlements(ctx, authz.UserID)
	if err != nil {
		response.RespondAPIError(c, "get_me_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"me": me, "is_admin": authz.IsAdmin, "entitlements": ents})
}
