package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/modules/learning"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type LearningHandlerDeps struct {
	Log      *logger.Logger
	Learning learning.Usecases
	Access   services.AccessService
	Catalog  services.CatalogService
	Metrics  *observability.Metrics
}

type LearningHandler struct {
	log      *logger.Logger
	learning learning.Usecases
	access   services.AccessService
	catalog  services.CatalogService
	metrics  *observability.Metrics
}

func NewLearningHandlerWithDeps(deps LearningHandlerDeps) *LearningHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &LearningHandler{
		log:      log.With("handler", "LearningHandler"),
		learning: deps.Learning,
		access:   deps.Access,
		catalog:  deps.Catalog,
		metrics:  deps.Metrics,
	}
}

// GET /api/dashboard
func (h *LearningHandler) Dashboard(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.learning.Dashboard(c.Request.Context(), authz)
	if err != nil {
		response.RespondAPIError(c, "dashboard_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/courses/:courseId
func (h *LearningHandler) CourseOutline(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	out, err := h.learning.CourseOutline(c.Request.Context(), authz, courseID)
	if err != nil {
		response.RespondAPIError(c, "course_outline_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/courses/:courseId/access
func (h *LearningHandler) CourseAccess(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	entitled, err := h.access.HasCourseAccess(c.Request.Context(), authz, courseID)
	if err != nil {
		response.RespondAPIError(c, "access_check_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course_id": courseID, "entitled": entitled})
}

// GET /api/products/:productId/access
// The download link is only returned to entitled callers.
func (h *LearningHandler) ProductAccess(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId", "invalid_product_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		response.RespondAPIError(c, "access_check_failed", err)
		return
	}
	if !product.IsPublished && !authz.IsAdmin {
		response.RespondAPIError(c, "access_check_failed", apierr.NotFound("product_not_found", ""))
		return
	}
	entitled, err := h.access.HasProductAccess(ctx, authz, productID)
	if err != nil {
		response.RespondAPIError(c, "access_check_failed", err)
		return
	}
	out := gin.H{"product_id": productID, "entitled": entitled}
	if entitled {
		out["download_url"] = product.DownloadURL
	}
	response.RespondOK(c, out)
}

// GET /api/courses/:courseId/sections/:sectionId/lessons/:lessonId
func (h *LearningHandler) LessonPage(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	sectionID, ok := uuidParam(c, "sectionId", "invalid_section_id")
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lessonId", "invalid_lesson_id")
	if !ok {
		return
	}
	page, err := h.learning.LessonPage(c.Request.Context(), learning.LessonPageInput{
		Authz:     authz,
		CourseID:  courseID,
		SectionID: sectionID,
		LessonID:  lessonID,
	})
	if err != nil {
		response.RespondAPIError(c, "lesson_page_failed", err)
		return
	}
	response.RespondOK(c, page)
}

type setCompletionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// PUT /api/lessons/:lessonId/completion
// body: { "completed": true|false }
func (h *LearningHandler) SetCompletion(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lessonId", "invalid_lesson_id")
	if !ok {
		return
	}
	var req setCompletionRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.learning.SetLessonCompletion(c.Request.Context(), learning.SetCompletionInput{
		Authz:     authz,
		LessonID:  lessonID,
		Completed: *req.Completed,
	})
	if res != nil {
		h.metrics.IncCompletionWrite(res.State)
	}
	if err != nil {
		if res != nil {
			// The write failed; report the rolled-back value alongside the error.
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":      response.APIError{Message: "internal error", Code: "completion_write_failed"},
				"completion": res,
			})
			return
		}
		response.RespondAPIError(c, "completion_write_failed", err)
		return
	}
	response.RespondOK(c, res)
}

type submitQuizRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// POST /api/quizzes/:quizId/attempts
// body: { "answers": [1, -1, 0] }
func (h *LearningHandler) SubmitQuiz(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quizId", "invalid_quiz_id")
	if !ok {
		return
	}
	var req submitQuizRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.learning.SubmitQuiz(c.Request.Context(), learning.SubmitQuizInput{
		Authz:   authz,
		QuizID:  quizID,
		Answers: req.Answers,
	})
	if err != nil {
		response.RespondAPIError(c, "submit_quiz_failed", err)
		return
	}
	h.metrics.IncQuizAttempt(res.Passed)
	response.RespondCreated(c, res)
}

// GET /api/quizzes/:quizId/attempts
func (h *LearningHandler) ListAttempts(c *gin.Context) {
	authz, ok := requireUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quizId", "invalid_quiz_id")
	if !ok {
		return
	}
	attempts, err := h.learning.ListAttempts(c.Request.Context(), authz, quizID)
	if err != nil {
		response.RespondAPIError(c, "list_attempts_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": attempts})
}
