package learning

import (
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/realtime/bus"
	"github.com/yungbote/coursehub-backend/internal/services"
)

var tracer = otel.Tracer("github.com/yungbote/coursehub-backend/internal/modules/learning")

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Courses services.CourseCache
	Access  services.AccessService
	Events  bus.Bus

	CourseRepo repos.CourseRepo
	Lessons    repos.LessonRepo
	Quizzes    repos.QuizRepo
	Progress   repos.LessonProgressRepo
	Attempts   repos.QuizAttemptRepo
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}
