package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/modules/learning"
	"github.com/yungbote/coursehub-backend/internal/services"
)

// CatalogHandler serves the public storefront. Course detail is rendered as an
// outline so lesson bodies and answer keys never leave the server here.
type CatalogHandler struct {
	catalog  services.CatalogService
	learning learning.Usecases
}

func NewCatalogHandler(catalog services.CatalogService, uc learning.Usecases) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, learning: uc}
}

// GET /api/catalog/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context(), true)
	if err != nil {
		response.RespondAPIError(c, "list_courses_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/catalog/courses/:slug
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	ctx := c.Request.Context()
	course, err := h.catalog.GetPublishedCourse(ctx, c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, "get_course_failed", err)
		return
	}
	outline, err := h.learning.CourseOutline(ctx, services.AuthzFromContext(ctx), course.ID)
	if err != nil {
		response.RespondAPIError(c, "get_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"course": gin.H{
			"id":           course.ID,
			"slug":         course.Slug,
			"title":        course.Title,
			"description":  course.Description,
			"price_amount": course.PriceAmount,
			"currency":     course.Currency,
		},
		"outline": outline,
	})
}

// GET /api/catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), true)
	if err != nil {
		response.RespondAPIError(c, "list_products_failed", err)
		return
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, publicProduct(p))
	}
	response.RespondOK(c, gin.H{"products": out})
}

// productView is a product without its download link.
type productView struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceAmount int64     `json:"price_amount"`
	Currency    string    `json:"currency"`
}

func publicProduct(p *types.Product) productView {
	return productView{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		PriceAmount: p.PriceAmount,
		Currency:    p.Currency,
	}
}
