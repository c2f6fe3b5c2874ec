package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/domain/commerce"
	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

// AdminHandler is mounted behind RequireAdmin; nothing here re-checks the role.
type AdminHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
	access  services.AccessService
	users   services.UserService
}

func NewAdminHandler(log *logger.Logger, catalog services.CatalogService, access services.AccessService, users services.UserService) *AdminHandler {
	return &AdminHandler{
		log:     log.With("handler", "AdminHandler"),
		catalog: catalog,
		access:  access,
		users:   users,
	}
}

// ---- courses ----

// GET /api/admin/courses
func (h *AdminHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context(), false)
	if err != nil {
		response.RespondAPIError(c, "list_courses_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/admin/courses/:courseId
func (h *AdminHandler) GetCourse(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	course, err := h.catalog.GetCourseTree(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, "get_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// POST /api/admin/courses
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var in services.CourseInput
	if !bindJSON(c, &in) {
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, "create_course_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// PATCH /api/admin/courses/:courseId
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	var in services.CourseInput
	if !bindJSON(c, &in) {
		return
	}
	course, err := h.catalog.UpdateCourse(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, "update_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// DELETE /api/admin/courses/:courseId
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCourse(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, "delete_course_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- sections ----

// POST /api/admin/courses/:courseId/sections
func (h *AdminHandler) CreateSection(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	var in services.SectionInput
	if !bindJSON(c, &in) {
		return
	}
	sec, err := h.catalog.CreateSection(c.Request.Context(), courseID, in)
	if err != nil {
		response.RespondAPIError(c, "create_section_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"section": sec})
}

// PATCH /api/admin/sections/:sectionId
func (h *AdminHandler) UpdateSection(c *gin.Context) {
	id, ok := uuidParam(c, "sectionId", "invalid_section_id")
	if !ok {
		return
	}
	var in services.SectionInput
	if !bindJSON(c, &in) {
		return
	}
	sec, err := h.catalog.UpdateSection(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, "update_section_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"section": sec})
}

// DELETE /api/admin/sections/:sectionId
func (h *AdminHandler) DeleteSection(c *gin.Context) {
	id, ok := uuidParam(c, "sectionId", "invalid_section_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteSection(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, "delete_section_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- lessons ----

// POST /api/admin/sections/:sectionId/lessons
func (h *AdminHandler) CreateLesson(c *gin.Context) {
	sectionID, ok := uuidParam(c, "sectionId", "invalid_section_id")
	if !ok {
		return
	}
	var in services.LessonInput
	if !bindJSON(c, &in) {
		return
	}
	lesson, err := h.catalog.CreateLesson(c.Request.Context(), sectionID, in)
	if err != nil {
		response.RespondAPIError(c, "create_lesson_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

// PATCH /api/admin/lessons/:lessonId
func (h *AdminHandler) UpdateLesson(c *gin.Context) {
	id, ok := uuidParam(c, "lessonId", "invalid_lesson_id")
	if !ok {
		return
	}
	var in services.LessonInput
	if !bindJSON(c, &in) {
		return
	}
	lesson, err := h.catalog.UpdateLesson(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, "update_lesson_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// DELETE /api/admin/lessons/:lessonId
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	id, ok := uuidParam(c, "lessonId", "invalid_lesson_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteLesson(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, "delete_lesson_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/admin/lessons/:lessonId/attachments
func (h *AdminHandler) AddAttachment(c *gin.Context) {
	lessonID, ok := uuidParam(c, "lessonId", "invalid_lesson_id")
	if !ok {
		return
	}
	var in services.AttachmentInput
	if !bindJSON(c, &in) {
		return
	}
	att, err := h.catalog.AddAttachment(c.Request.Context(), lessonID, in)
	if err != nil {
		response.RespondAPIError(c, "add_attachment_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"attachment": att})
}

// DELETE /api/admin/lessons/:lessonId/attachments/:attachmentId
func (h *AdminHandler) DeleteAttachment(c *gin.Context) {
	lessonID, ok := uuidParam(c, "lessonId", "invalid_lesson_id")
	if !ok {
		return
	}
	attID, ok := uuidParam(c, "attachmentId", "invalid_attachment_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteAttachment(c.Request.Context(), lessonID, attID); err != nil {
		response.RespondAPIError(c, "delete_attachment_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- quizzes ----

// POST /api/admin/lessons/:lessonId/quiz
func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	lessonID, ok := uuidParam(c, "lessonId", "invalid_lesson_id")
	if !ok {
		return
	}
	var in services.QuizInput
	if !bindJSON(c, &in) {
		return
	}
	quiz, err := h.catalog.CreateQuiz(c.Request.Context(), lessonID, in)
	if err != nil {
		response.RespondAPIError(c, "create_quiz_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"quiz": quiz})
}

// PATCH /api/admin/quizzes/:quizId
func (h *AdminHandler) UpdateQuiz(c *gin.Context) {
	id, ok := uuidParam(c, "quizId", "invalid_quiz_id")
	if !ok {
		return
	}
	var in services.QuizInput
	if !bindJSON(c, &in) {
		return
	}
	quiz, err := h.catalog.UpdateQuiz(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, "update_quiz_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": quiz})
}

// DELETE /api/admin/quizzes/:quizId
func (h *AdminHandler) DeleteQuiz(c *gin.Context) {
	id, ok := uuidParam(c, "quizId", "invalid_quiz_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteQuiz(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, "delete_quiz_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/admin/quizzes/:quizId/questions
func (h *AdminHandler) AddQuestion(c *gin.Context) {
	quizID, ok := uuidParam(c, "quizId", "invalid_quiz_id")
	if !ok {
		return
	}
	var in services.QuestionInput
	if !bindJSON(c, &in) {
		return
	}
	q, err := h.catalog.AddQuestion(c.Request.Context(), quizID, in)
	if err != nil {
		response.RespondAPIError(c, "add_question_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"question": q})
}

// PATCH /api/admin/quizzes/:quizId/questions/:questionId
func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	quizID, ok := uuidParam(c, "quizId", "invalid_quiz_id")
	if !ok {
		return
	}
	questionID, ok := uuidParam(c, "questionId", "invalid_question_id")
	if !ok {
		return
	}
	var in services.QuestionInput
	if !bindJSON(c, &in) {
		return
	}
	q, err := h.catalog.UpdateQuestion(c.Request.Context(), quizID, questionID, in)
	if err != nil {
		response.RespondAPIError(c, "update_question_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"question": q})
}

// DELETE /api/admin/quizzes/:quizId/questions/:questionId
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	quizID, ok := uuidParam(c, "quizId", "invalid_quiz_id")
	if !ok {
		return
	}
	questionID, ok := uuidParam(c, "questionId", "invalid_question_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteQuestion(c.Request.Context(), quizID, questionID); err != nil {
		response.RespondAPIError(c, "delete_question_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- products ----

// GET /api/admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), false)
	if err != nil {
		response.RespondAPIError(c, "list_products_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"products": products})
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var in services.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, "create_product_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"product": p})
}

// PATCH /api/admin/products/:productId
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := uuidParam(c, "productId", "invalid_product_id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.catalog.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, "update_product_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"product": p})
}

// DELETE /api/admin/products/:productId
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := uuidParam(c, "productId", "invalid_product_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, "delete_product_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- users & entitlements ----

// GET /api/admin/users?limit=&offset=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, total, err := h.users.List(c.Request.Context(), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		response.RespondAPIError(c, "list_users_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"users": users, "total": total})
}

// GET /api/admin/users/:userId/entitlements
func (h *AdminHandler) ListUserEntitlements(c *gin.Context) {
	userID, ok := uuidParam(c, "userId", "invalid_user_id")
	if !ok {
		return
	}
	ents, err := h.access.ListEntitlements(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, "list_entitlements_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"entitlements": ents})
}

type entitlementRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	ItemType string    `json:"item_type" binding:"required,oneof=course product"`
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
}

func (h *AdminHandler) bindEntitlement(c *gin.Context) (entitlementRequest, commerce.ItemType, bool) {
	var req entitlementRequest
	if !bindJSON(c, &req) {
		return req, "", false
	}
	itemType, err := commerce.ParseItemType(req.ItemType)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_item_type", err)
		return req, "", false
	}
	return req, itemType, true
}

// POST /api/admin/entitlements
// 201 when a grant was created, 200 when the user already had access.
func (h *AdminHandler) GrantEntitlement(c *gin.Context) {
	req, itemType, ok := h.bindEntitlement(c)
	if !ok {
		return
	}
	ent, created, err := h.access.Grant(c.Request.Context(), req.UserID, itemType, req.ItemID)
	if err != nil {
		response.RespondAPIError(c, "grant_failed", err)
		return
	}
	h.log.Info("entitlement granted", "user_id", req.UserID, "item_type", itemType, "item_id", req.ItemID, "created", created)
	if created {
		response.RespondCreated(c, gin.H{"entitlement": ent, "created": true})
		return
	}
	response.RespondOK(c, gin.H{"entitlement": ent, "created": false})
}

// DELETE /api/admin/entitlements
func (h *AdminHandler) RevokeEntitlement(c *gin.Context) {
	req, itemType, ok := h.bindEntitlement(c)
	if !ok {
		return
	}
	if err := h.access.Revoke(c.Request.Context(), req.UserID, itemType, req.ItemID); err != nil {
		response.RespondAPIError(c, "revoke_failed", err)
		return
	}
	h.log.Info("entitlement revoked", "user_id", req.UserID, "item_type", itemType, "item_id", req.ItemID)
	c.Status(http.StatusNoContent)
}
