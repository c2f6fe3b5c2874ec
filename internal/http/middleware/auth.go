package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
	userService services.UserService
	admins      services.AdminPolicy
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, userService services.UserService, admins services.AdminPolicy) *AuthMiddleware {
	return &AuthMiddleware{
		log:         log.With("middleware", "AuthMiddleware"),
		authService: authService,
		userService: userService,
		admins:      admins,
	}
}

// RequireAuth verifies the bearer token, mirrors the user locally, and attaches
// RequestData. Admin status is decided here and nowhere else.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		if !am.authenticate(c, tokenString) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches RequestData when a valid token is present and
// otherwise lets the request through anonymously. An invalid token is still 401.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString != "" && !am.authenticate(c, tokenString) {
			c.Abort()
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		if !rd.IsAdmin {
			response.RespondError(c, http.StatusForbidden, "admin_required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) authenticate(c *gin.Context, tokenString string) bool {
	ident, err := am.authService.VerifyToken(tokenString)
	if err != nil {
		am.log.Debug("token rejected", "error", err)
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return false
	}
	u, err := am.userService.Ensure(c.Request.Context(), ident)
	if err != nil {
		response.RespondAPIError(c, "user_sync_failed", err)
		return false
	}
	ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
		TokenString: tokenString,
		ExternalID:  ident.ExternalID,
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsAdmin:     am.admins.IsAdmin(u.Email),
	})
	c.Request = c.Request.WithContext(ctx)
	c.Set("user_id", u.ID.String())
	return true
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
