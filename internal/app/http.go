package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/http"
	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Catalog  *httpH.CatalogHandler
	User     *httpH.UserHandler
	Learning *httpH.LearningHandler
	Checkout *httpH.CheckoutHandler
	Admin    *httpH.AdminHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Catalog: httpH.NewCatalogHandler(s.Catalog, s.Learning),
		User:    httpH.NewUserHandler(s.User, s.Access),
		Learning: httpH.NewLearningHandlerWithDeps(httpH.LearningHandlerDeps{
			Log:      log,
			Learning: s.Learning,
			Access:   s.Access,
			Catalog:  s.Catalog,
			Metrics:  metrics,
		}),
		Checkout: httpH.NewCheckoutHandler(log, s.Checkout, metrics),
		Admin:    httpH.NewAdminHandler(log, s.Catalog, s.Access, s.User),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth, s.User, s.Admins),
	}
}

func wireServer(log *logger.Logger, cfg Config, h Handlers, mw Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:             log,
		ServiceName:     cfg.Otel.ServiceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		Metrics:         metrics,
		AuthMiddleware:  mw.Auth,
		HealthHandler:   h.Health,
		CatalogHandler:  h.Catalog,
		UserHandler:     h.User,
		LearningHandler: h.Learning,
		CheckoutHandler: h.Checkout,
		AdminHandler:    h.Admin,
	})
}
