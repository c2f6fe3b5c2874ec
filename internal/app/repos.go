package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	Course        repos.CourseRepo
	Section       repos.SectionRepo
	Lesson        repos.LessonRepo
	Attachment    repos.AttachmentRepo
	Quiz          repos.QuizRepo
	Question      repos.QuestionRepo
	Product       repos.ProductRepo
	Progress      repos.LessonProgressRepo
	QuizAttempt   repos.QuizAttemptRepo
	Entitlement   repos.EntitlementRepo
	CheckoutOrder repos.CheckoutOrderRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Course:        repos.NewCourseRepo(db, log),
		Section:       repos.NewSectionRepo(db, log),
		Lesson:        repos.NewLessonRepo(db, log),
		Attachment:    repos.NewAttachmentRepo(db, log),
		Quiz:          repos.NewQuizRepo(db, log),
		Question:      repos.NewQuestionRepo(db, log),
		Product:       repos.NewProductRepo(db, log),
		Progress:      repos.NewLessonProgressRepo(db, log),
		QuizAttempt:   repos.NewQuizAttemptRepo(db, log),
		Entitlement:   repos.NewEntitlementRepo(db, log),
		CheckoutOrder: repos.NewCheckoutOrderRepo(db, log),
	}
}
