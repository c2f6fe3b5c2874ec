package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ExternalID: "ext-" + uuid.NewString(),
		Email:      email,
		Name:       "Learner",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, sequential bool) *types.Course {
	tb.Helper()
	c := &types.Course{
		Slug:                      "course-" + uuid.NewString()[:8],
		Title:                     "Course",
		Currency:                  "IDR",
		PriceAmount:               150000,
		IsPublished:               true,
		RequireSequentialProgress: sequential,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedSection(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, order int) *types.Section {
	tb.Helper()
	s := &types.Section{
		CourseID: courseID,
		Title:    fmt.Sprintf("Section %d", order),
		Order:    order,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, order int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		SectionID: sectionID,
		Title:     fmt.Sprintf("Lesson %d", order),
		Order:     order,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedQuiz creates a quiz whose every question has options a..d and the given correct indices.
func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, mandatory bool, passing int, correct ...int) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		LessonID:     lessonID,
		IsMandatory:  mandatory,
		PassingScore: passing,
	}
	if err := tx.WithContext(ctx).Omit("Questions").Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	for i, ci := range correct {
		qq := &types.Question{
			QuizID:       q.ID,
			Text:         fmt.Sprintf("Question %d", i),
			Options:      datatypes.JSONSlice[string]{"a", "b", "c", "d"},
			CorrectIndex: ci,
			Order:        i,
		}
		if err := tx.WithContext(ctx).Create(qq).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		q.Questions = append(q.Questions, *qq)
	}
	return q
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Product {
	tb.Helper()
	p := &types.Product{
		Slug:        "product-" + uuid.NewString()[:8],
		Title:       "Product",
		Currency:    "IDR",
		PriceAmount: 50000,
		IsPublished: true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}
