package domain

import (
	"github.com/yungbote/coursehub-backend/internal/domain/catalog"
	"github.com/yungbote/coursehub-backend/internal/domain/commerce"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

type User = user.User

type Course = catalog.Course
type Section = catalog.Section
type Lesson = catalog.Lesson
type Attachment = catalog.Attachment
type Quiz = catalog.Quiz
type Question = catalog.Question
type Product = catalog.Product

type LessonProgress = learning.LessonProgress
type QuizAttempt = learning.QuizAttempt

type ItemType = commerce.ItemType
type Entitlement = commerce.Entitlement
type EntitlementSource = commerce.Source
type CheckoutOrder = commerce.CheckoutOrder
type OrderStatus = commerce.OrderStatus

const (
	ItemCourse  = commerce.ItemCourse
	ItemProduct = commerce.ItemProduct

	SourceCheckout   = commerce.SourceCheckout
	SourceAdminGrant = commerce.SourceAdminGrant

	OrderPending   = commerce.OrderPending
	OrderPaid      = commerce.OrderPaid
	OrderExpired   = commerce.OrderExpired
	OrderCancelled = commerce.OrderCancelled
	OrderFailed    = commerce.OrderFailed

	Unanswered = learning.Unanswered
)

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Course{},
		&Section{},
		&Lesson{},
		&Attachment{},
		&Quiz{},
		&Question{},
		&Product{},
		&LessonProgress{},
		&QuizAttempt{},
		&Entitlement{},
		&CheckoutOrder{},
	}
}
