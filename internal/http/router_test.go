package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursehub-backend/internal/clients/midtrans"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/modules/learning"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/realtime/bus"
	"github.com/yungbote/coursehub-backend/internal/services"
)

const serverKey = "SB-Mid-server-router"

type stubGateway struct{}

func (stubGateway) CreateTransaction(_ context.Context, orderID string, _ int64, _ midtrans.LineItem, _ midtrans.Customer) (*midtrans.Transaction, error) {
	return &midtrans.Transaction{Token: "tok-" + orderID, RedirectURL: "https://pay.example.com/" + orderID}, nil
}

func (stubGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return midtrans.VerifySignature(serverKey, orderID, statusCode, grossAmount, signature)
}

type harness struct {
	t      *testing.T
	r      *gin.Engine
	auth   services.AuthService
	course *types.Course
	lesson []*types.Lesson
	quiz   *types.Quiz
	events *bus.MemoryBus
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	events := bus.NewMemoryBus(true)

	catalogRepos := services.CatalogRepos{
		Courses:     repos.NewCourseRepo(db, log),
		Sections:    repos.NewSectionRepo(db, log),
		Lessons:     repos.NewLessonRepo(db, log),
		Attachments: repos.NewAttachmentRepo(db, log),
		Quizzes:     repos.NewQuizRepo(db, log),
		Questions:   repos.NewQuestionRepo(db, log),
		Products:    repos.NewProductRepo(db, log),
	}
	cache := services.NewCourseCache(log, catalogRepos.Courses, nil, 0)
	access := services.NewAccessService(log, repos.NewEntitlementRepo(db, log), catalogRepos.Courses, catalogRepos.Products, events)
	catalog := services.NewCatalogService(log, catalogRepos, cache)
	users := services.NewUserService(log, repos.NewUserRepo(db, log))
	auth := services.NewAuthService(log, "router-secret", "")
	checkout := services.NewCheckoutService(db, log, repos.NewCheckoutOrderRepo(db, log), catalogRepos.Courses, catalogRepos.Products, access, stubGateway{})
	uc := learning.New(learning.UsecasesDeps{
		DB:         db,
		Log:        log,
		Courses:    cache,
		Access:     access,
		Events:     events,
		CourseRepo: catalogRepos.Courses,
		Lessons:    catalogRepos.Lessons,
		Quizzes:    catalogRepos.Quizzes,
		Progress:   repos.NewLessonProgressRepo(db, log),
		Attempts:   repos.NewQuizAttemptRepo(db, log),
	})
	metrics := observability.NewMetrics(true)

	r := NewRouter(RouterConfig{
		Log:             log,
		Metrics:         metrics,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, auth, users, services.NewAdminPolicy([]string{"admin@example.com"})),
		HealthHandler:   httpH.NewHealthHandler(db),
		CatalogHandler:  httpH.NewCatalogHandler(catalog, uc),
		UserHandler:     httpH.NewUserHandler(users, access),
		LearningHandler: httpH.NewLearningHandlerWithDeps(httpH.LearningHandlerDeps{Log: log, Learning: uc, Access: access, Catalog: catalog, Metrics: metrics}),
		CheckoutHandler: httpH.NewCheckoutHandler(log, checkout, metrics),
		AdminHandler:    httpH.NewAdminHandler(log, catalog, access, users),
	})

	course := testutil.SeedCourse(t, ctx, db, true)
	sec := testutil.SeedSection(t, ctx, db, course.ID, 0)
	var lessons []*types.Lesson
	for i := 0; i < 2; i++ {
		lessons = append(lessons, testutil.SeedLesson(t, ctx, db, sec.ID, i))
	}
	quiz := testutil.SeedQuiz(t, ctx, db, lessons[0].ID, true, 70, 1, 2)

	return &harness{t: t, r: r, auth: auth, course: course, lesson: lessons, quiz: quiz, events: events}
}

func (h *harness) token(email string) string {
	h.t.Helper()
	tok, err := h.auth.IssueToken(services.Identity{ExternalID: "ext-" + email, Email: email, Name: email}, time.Hour)
	require.NoError(h.t, err)
	return tok
}

func (h *harness) do(method, path, token string, body any) (int, map[string]any) {
	h.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.r.ServeHTTP(rec, req)
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func (h *harness) lessonPath(i int) string {
	l := h.lesson[i]
	return "/api/courses/" + h.course.ID.String() + "/sections/" + l.SectionID.String() + "/lessons/" + l.ID.String()
}

func errCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestRouter_LearnerJourney(t *testing.T) {
	h := newHarness(t)
	learner := h.token("learner@example.com")
	admin := h.token("admin@example.com")

	code, _ := h.do(http.MethodGet, "/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, code)

	code, body := h.do(http.MethodGet, "/api/catalog/courses/"+h.course.Slug, "", nil)
	require.Equal(t, http.StatusOK, code)
	outline := body["outline"].(map[string]any)
	require.Equal(t, false, outline["entitled"])

	code, body = h.do(http.MethodGet, "/api/me", learner, nil)
	require.Equal(t, http.StatusOK, code)
	learnerID := body["me"].(map[string]any)["id"].(string)
	require.Equal(t, false, body["is_admin"])

	// Not purchased: the page says so without content.
	code, body = h.do(http.MethodGet, h.lessonPath(0), learner, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["entitled"])

	// Learners cannot grant themselves access.
	grant := map[string]any{"user_id": learnerID, "item_type": "course", "item_id": h.course.ID.String()}
	code, body = h.do(http.MethodPost, "/api/admin/entitlements", learner, grant)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "admin_required", errCode(body))

	code, body = h.do(http.MethodPost, "/api/admin/entitlements", admin, grant)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, true, body["created"])
	code, _ = h.do(http.MethodPost, "/api/admin/entitlements", admin, grant)
	require.Equal(t, http.StatusOK, code)

	// Lesson 1 stays locked until lesson 0 is complete and its quiz passed.
	code, body = h.do(http.MethodGet, h.lessonPath(1), learner, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["locked"])
	require.Nil(t, body["content"])

	code, body = h.do(http.MethodPut, "/api/lessons/"+h.lesson[0].ID.String()+"/completion", learner, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "confirmed", body["state"])
	require.Equal(t, true, body["completed"])

	quizPath := "/api/quizzes/" + h.quiz.ID.String() + "/attempts"
	code, body = h.do(http.MethodPost, quizPath, learner, map[string]any{"answers": []int{1}})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "answer_count_mismatch", errCode(body))

	code, body = h.do(http.MethodPost, quizPath, learner, map[string]any{"answers": []int{1, -1}})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, float64(50), body["score"])
	require.Equal(t, false, body["passed"])

	code, body = h.do(http.MethodGet, h.lessonPath(1), learner, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["locked"])

	code, body = h.do(http.MethodPost, quizPath, learner, map[string]any{"answers": []int{1, 2}})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, true, body["passed"])

	code, body = h.do(http.MethodGet, h.lessonPath(1), learner, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["locked"])

	code, body = h.do(http.MethodGet, quizPath, learner, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["attempts"], 2)

	code, body = h.do(http.MethodGet, "/api/dashboard", learner, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["courses"], 1)
}

func TestRouter_AuthAndValidation(t *testing.T) {
	h := newHarness(t)
	learner := h.token("learner@example.com")

	code, body := h.do(http.MethodGet, "/api/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "unauthorized", errCode(body))

	code, body = h.do(http.MethodGet, "/api/courses/not-a-uuid", learner, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalid_course_id", errCode(body))

	code, body = h.do(http.MethodPut, "/api/lessons/"+h.lesson[0].ID.String()+"/completion", learner, map[string]any{})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalid_request", errCode(body))

	// Writes need the course.
	code, body = h.do(http.MethodPut, "/api/lessons/"+h.lesson[0].ID.String()+"/completion", learner, map[string]any{"completed": true})
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "not_entitled", errCode(body))

	code, _ = h.do(http.MethodGet, "/api/admin/courses", learner, nil)
	require.Equal(t, http.StatusForbidden, code)
}

func TestRouter_CheckoutAndWebhook(t *testing.T) {
	h := newHarness(t)
	learner := h.token("buyer@example.com")

	code, body := h.do(http.MethodPost, "/api/checkout", learner, map[string]any{"item_type": "course", "item_id": h.course.ID.String()})
	require.Equal(t, http.StatusCreated, code)
	orderID := body["order_id"].(string)
	require.Equal(t, "tok-"+orderID, body["token"])

	gross := "150000.00"
	bad := map[string]any{
		"order_id": orderID, "status_code": "200", "gross_amount": gross,
		"signature_key": "nope", "transaction_status": "settlement",
	}
	code, body = h.do(http.MethodPost, "/api/webhooks/midtrans", "", bad)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "invalid_signature", errCode(body))

	good := map[string]any{
		"order_id": orderID, "status_code": "200", "gross_amount": gross,
		"signature_key":      midtrans.Signature(serverKey, orderID, "200", gross),
		"transaction_status": "settlement",
	}
	code, body = h.do(http.MethodPost, "/api/webhooks/midtrans", "", good)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "paid", body["status"])

	code, body = h.do(http.MethodGet, "/api/courses/"+h.course.ID.String()+"/access", learner, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["entitled"])

	code, body = h.do(http.MethodPost, "/api/checkout", learner, map[string]any{"item_type": "course", "item_id": h.course.ID.String()})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "already_entitled", errCode(body))

	code, _ = h.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, code)
}
