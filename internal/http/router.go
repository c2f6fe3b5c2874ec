package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	CatalogHandler  *httpH.CatalogHandler
	UserHandler     *httpH.UserHandler
	LearningHandler *httpH.LearningHandler
	CheckoutHandler *httpH.CheckoutHandler
	AdminHandler    *httpH.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = observability.DefaultServiceName
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.Correlate())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck", "/readyz", "/metrics"))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api")
	{
		// Storefront (public; a token, if sent, personalizes the outline)
		if cfg.CatalogHandler != nil {
			catalog := api.Group("/catalog")
			if cfg.AuthMiddleware != nil {
				catalog.Use(cfg.AuthMiddleware.OptionalAuth())
			}
			catalog.GET("/courses", cfg.CatalogHandler.ListCourses)
			catalog.GET("/courses/:slug", cfg.CatalogHandler.GetCourse)
			catalog.GET("/products", cfg.CatalogHandler.ListProducts)
		}

		// Payment provider callbacks (signature-verified, no bearer token)
		if cfg.CheckoutHandler != nil {
			api.POST("/webhooks/midtrans", cfg.CheckoutHandler.MidtransNotification)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		if cfg.LearningHandler != nil {
			protected.GET("/dashboard", cfg.LearningHandler.Dashboard)
			protected.GET("/courses/:courseId", cfg.LearningHandler.CourseOutline)
			protected.GET("/courses/:courseId/access", cfg.LearningHandler.CourseAccess)
			protected.GET("/courses/:courseId/sections/:sectionId/lessons/:lessonId", cfg.LearningHandler.LessonPage)
			protected.PUT("/lessons/:lessonId/completion", cfg.LearningHandler.SetCompletion)
			protected.POST("/quizzes/:quizId/attempts", cfg.LearningHandler.SubmitQuiz)
			protected.GET("/quizzes/:quizId/attempts", cfg.LearningHandler.ListAttempts)
			protected.GET("/products/:productId/access", cfg.LearningHandler.ProductAccess)
		}

		if cfg.CheckoutHandler != nil {
			protected.POST("/checkout", cfg.CheckoutHandler.Create)
		}
	}

	if cfg.AdminHandler != nil && cfg.AuthMiddleware != nil {
		admin := protected.Group("/admin")
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
		{
			h := cfg.AdminHandler

			admin.GET("/courses", h.ListCourses)
			admin.POST("/courses", h.CreateCourse)
			admin.GET("/courses/:courseId", h.GetCourse)
			admin.PATCH("/courses/:courseId", h.UpdateCourse)
			admin.DELETE("/courses/:courseId", h.DeleteCourse)
			admin.POST("/courses/:courseId/sections", h.CreateSection)

			admin.PATCH("/sections/:sectionId", h.UpdateSection)
			admin.DELETE("/sections/:sectionId", h.DeleteSection)
			admin.POST("/sections/:sectionId/lessons", h.CreateLesson)

			admin.PATCH("/lessons/:lessonId", h.UpdateLesson)
			admin.DELETE("/lessons/:lessonId", h.DeleteLesson)
			admin.POST("/lessons/:lessonId/attachments", h.AddAttachment)
			admin.DELETE("/lessons/:lessonId/attachments/:attachmentId", h.DeleteAttachment)
			admin.POST("/lessons/:lessonId/quiz", h.CreateQuiz)

			admin.PATCH("/quizzes/:quizId", h.UpdateQuiz)
			admin.DELETE("/quizzes/:quizId", h.DeleteQuiz)
			admin.POST("/quizzes/:quizId/questions", h.AddQuestion)
			admin.PATCH("/quizzes/:quizId/questions/:questionId", h.UpdateQuestion)
			admin.DELETE("/quizzes/:quizId/questions/:questionId", h.DeleteQuestion)

			admin.GET("/products", h.ListProducts)
			admin.POST("/products", h.CreateProduct)
			admin.PATCH("/products/:productId", h.UpdateProduct)
			admin.DELETE("/products/:productId", h.DeleteProduct)

			admin.GET("/users", h.ListUsers)
			admin.GET("/users/:userId/entitlements", h.ListUserEntitlements)
			admin.POST("/entitlements", h.GrantEntitlement)
			admin.DELETE("/entitlements", h.RevokeEntitlement)
		}
	}

	return r
}
