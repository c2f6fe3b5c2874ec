package repos

import (
	"github.com/yungbote/coursehub-backend/internal/data/repos/catalog"
	"github.com/yungbote/coursehub-backend/internal/data/repos/commerce"
	"github.com/yungbote/coursehub-backend/internal/data/repos/learning"
	"github.com/yungbote/coursehub-backend/internal/data/repos/user"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type CourseRepo = catalog.CourseRepo
type SectionRepo = catalog.SectionRepo
type LessonRepo = catalog.LessonRepo
type LessonLocation = catalog.LessonLocation
type AttachmentRepo = catalog.AttachmentRepo
type QuizRepo = catalog.QuizRepo
type QuestionRepo = catalog.QuestionRepo
type ProductRepo = catalog.ProductRepo

type LessonProgressRepo = learning.LessonProgressRepo
type QuizAttemptRepo = learning.QuizAttemptRepo

type EntitlementRepo = commerce.EntitlementRepo
type CheckoutOrderRepo = commerce.CheckoutOrderRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo { return catalog.NewCourseRepo(db, log) }
func NewSectionRepo(db *gorm.DB, log *logger.Logger) SectionRepo {
	return catalog.NewSectionRepo(db, log)
}
func NewLessonRepo(db *gorm.DB, log *logger.Logger) LessonRepo { return catalog.NewLessonRepo(db, log) }
func NewAttachmentRepo(db *gorm.DB, log *logger.Logger) AttachmentRepo {
	return catalog.NewAttachmentRepo(db, log)
}
func NewQuizRepo(db *gorm.DB, log *logger.Logger) QuizRepo { return catalog.NewQuizRepo(db, log) }
func NewQuestionRepo(db *gorm.DB, log *logger.Logger) QuestionRepo {
	return catalog.NewQuestionRepo(db, log)
}
func NewProductRepo(db *gorm.DB, log *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, log)
}

func NewLessonProgressRepo(db *gorm.DB, log *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, log)
}
func NewQuizAttemptRepo(db *gorm.DB, log *logger.Logger) QuizAttemptRepo {
	return learning.NewQuizAttemptRepo(db, log)
}

func NewEntitlementRepo(db *gorm.DB, log *logger.Logger) EntitlementRepo {
	return commerce.NewEntitlementRepo(db, log)
}
func NewCheckoutOrderRepo(db *gorm.DB, log *logger.Logger) CheckoutOrderRepo {
	return commerce.NewCheckoutOrderRepo(db, log)
}
