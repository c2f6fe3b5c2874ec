package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type fakeUsers struct {
	ensured int
	byExt   map[string]*types.User
}

func (f *fakeUsers) Ensure(_ context.Context, id services.Identity) (*types.User, error) {
	f.ensured++
	if f.byExt == nil {
		f.byExt = map[string]*types.User{}
	}
	if u, ok := f.byExt[id.ExternalID]; ok {
		return u, nil
	}
	u := &types.User{ID: uuid.New(), ExternalID: id.ExternalID, Email: id.Email, Name: id.Name}
	f.byExt[id.ExternalID] = u
	return u, nil
}

func (f *fakeUsers) GetMe(context.Context, uuid.UUID) (*types.User, error) { return nil, nil }

func (f *fakeUsers) List(context.Context, int, int) ([]*types.User, int64, error) {
	return nil, 0, nil
}

type authHarness struct {
	auth  services.AuthService
	users *fakeUsers
	r     *gin.Engine
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	h := &authHarness{
		auth:  services.NewAuthService(log, "test-secret", "coursehub-test"),
		users: &fakeUsers{},
	}
	am := NewAuthMiddleware(log, h.auth, h.users, services.NewAdminPolicy([]string{"Boss@Example.com"}))

	whoami := func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": rd.Email, "admin": rd.IsAdmin})
	}
	r := gin.New()
	r.GET("/public", am.OptionalAuth(), whoami)
	r.GET("/me", am.RequireAuth(), whoami)
	r.GET("/admin", am.RequireAuth(), am.RequireAdmin(), whoami)
	h.r = r
	return h
}

func (h *authHarness) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := h.auth.IssueToken(services.Identity{ExternalID: "ext-" + email, Email: email, Name: "N"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return tok
}

func (h *authHarness) get(path, token string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.r.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestRequireAuth(t *testing.T) {
	h := newAuthHarness(t)

	rec, _ := h.get("/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: want=401 got=%d", rec.Code)
	}
	rec, _ = h.get("/me", "garbage")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=401 got=%d", rec.Code)
	}
	rec, body := h.get("/me", h.token(t, "learner@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: want=200 got=%d", rec.Code)
	}
	if body["email"] != "learner@example.com" || body["admin"] != false {
		t.Fatalf("request data: got=%v", body)
	}
	if h.users.ensured != 1 {
		t.Fatalf("Ensure calls: want=1 got=%d", h.users.ensured)
	}
}

func TestRequireAdmin(t *testing.T) {
	h := newAuthHarness(t)

	rec, _ := h.get("/admin", h.token(t, "learner@example.com"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: want=403 got=%d", rec.Code)
	}
	rec, body := h.get("/admin", h.token(t, "boss@example.com"))
	if rec.Code != http.StatusOK || body["admin"] != true {
		t.Fatalf("admin: code=%d body=%v", rec.Code, body)
	}
}

func TestOptionalAuth(t *testing.T) {
	h := newAuthHarness(t)

	rec, body := h.get("/public", "")
	if rec.Code != http.StatusOK || body["anonymous"] != true {
		t.Fatalf("anonymous: code=%d body=%v", rec.Code, body)
	}
	rec, _ = h.get("/public", "garbage")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=401 got=%d", rec.Code)
	}
	rec, body = h.get("/public?token="+h.token(t, "learner@example.com"), "")
	if rec.Code != http.StatusOK || body["email"] != "learner@example.com" {
		t.Fatalf("query token: code=%d body=%v", rec.Code, body)
	}
}
