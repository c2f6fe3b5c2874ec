package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/modules/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Admins      services.AdminPolicy
	User        services.UserService
	Access      services.AccessService
	CourseCache services.CourseCache
	Catalog     services.CatalogService
	Checkout    services.CheckoutService
	Learning    learning.Usecases
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")
	cache := services.NewCourseCache(log, r.Course, c.redisOrNil(), cfg.CourseCacheTTL)
	access := services.NewAccessService(log, r.Entitlement, r.Course, r.Product, c.Bus)
	catalog := services.NewCatalogService(log, services.CatalogRepos{
		Courses:     r.Course,
		Sections:    r.Section,
		Lessons:     r.Lesson,
		Attachments: r.Attachment,
		Quizzes:     r.Quiz,
		Questions:   r.Question,
		Products:    r.Product,
	}, cache)

	return Services{
		Auth:        services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer),
		Admins:      services.NewAdminPolicy(cfg.AdminEmails),
		User:        services.NewUserService(log, r.User),
		Access:      access,
		CourseCache: cache,
		Catalog:     catalog,
		Checkout:    services.NewCheckoutService(db, log, r.CheckoutOrder, r.Course, r.Product, access, c.Gateway),
		Learning: learning.New(learning.UsecasesDeps{
			DB:         db,
			Log:        log.With("module", "learning"),
			Courses:    cache,
			Access:     access,
			Events:     c.Bus,
			CourseRepo: r.Course,
			Lessons:    r.Lesson,
			Quizzes:    r.Quiz,
			Progress:   r.Progress,
			Attempts:   r.QuizAttempt,
		}),
	}
}
