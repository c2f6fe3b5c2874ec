package learning

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/modules/learning/progression"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type LessonPageInput struct {
	Authz     services.Authz
	CourseID  uuid.UUID
	SectionID uuid.UUID
	LessonID  uuid.UUID
}

// LessonPage composes everything the lesson screen needs. The checks run in a
// fixed order: structure, visibility, entitlement, lock.
func (u Usecases) LessonPage(ctx context.Context, in LessonPageInput) (*LessonPage, error) {
	ctx, span := tracer.Start(ctx, "learning.LessonPage")
	defer span.End()
	span.SetAttributes(
		attribute.String("course_id", in.CourseID.String()),
		attribute.String("lesson_id", in.LessonID.String()),
	)

	if in.Authz.Anonymous() {
		return nil, apierr.Unauthorized("unauthorized", "")
	}
	course, err := u.loadCourse(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	section, lesson := findLesson(course, in.SectionID, in.LessonID)
	if section == nil || lesson == nil {
		return nil, apierr.NotFound("lesson_not_found", "")
	}
	if (section.IsHidden || lesson.IsHidden) && !in.Authz.IsAdmin {
		return nil, apierr.NotFound("lesson_not_found", "")
	}

	page := &LessonPage{
		CourseID:  course.ID,
		SectionID: section.ID,
		LessonID:  lesson.ID,
		Title:     lesson.Title,
	}

	entitled, err := u.deps.Access.HasCourseAccess(ctx, in.Authz, course.ID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		span.SetAttributes(attribute.Bool("entitled", false))
		return page, nil
	}
	page.Entitled = true

	progress, passed, err := u.learnerState(ctx, in.Authz.UserID, course)
	if err != nil {
		return nil, err
	}

	locks := progression.ComputeLockState(course, progress, passed)
	page.LockState = locks
	page.Completed = progress[lesson.ID]
	page.CanAdvance = progression.CanAdvance(course, lesson.ID, progress, passed)
	prev, next := progression.Neighbors(course, lesson.ID)
	page.Prev, page.Next = lessonRef(prev), lessonRef(next)

	// Admins preview every lesson regardless of sequence.
	if locks[lesson.ID] && !in.Authz.IsAdmin {
		page.Locked = true
		span.SetAttributes(attribute.Bool("locked", true))
		return page, nil
	}

	page.Content = lesson.Content
	page.VideoID = lesson.VideoID
	page.Attachments = append([]types.Attachment(nil), lesson.Attachments...)
	if lesson.Quiz != nil {
		page.Quiz = quizView(lesson.Quiz, passed.Has(lesson.Quiz.ID))
	}
	return page, nil
}

func (u Usecases) loadCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	course, err := u.deps.Courses.Get(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found", "")
	}
	return course, nil
}

// learnerState loads completion and passed quizzes for the course's visible lessons concurrently.
func (u Usecases) learnerState(ctx context.Context, userID uuid.UUID, course *types.Course) (progression.Progress, progression.PassedQuizzes, error) {
	lessonIDs := progression.LessonIDs(course)
	quizIDs := progression.QuizIDs(course)

	var (
		progress progression.Progress
		passed   progression.PassedQuizzes
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := u.deps.Progress.CompletedMap(dbctx.New(gctx), userID, lessonIDs)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		progress = m
		return nil
	})
	g.Go(func() error {
		if len(quizIDs) == 0 {
			passed = progression.NewPassedQuizzes()
			return nil
		}
		ids, err := u.deps.Attempts.PassedQuizIDs(dbctx.New(gctx), userID, quizIDs)
		if err != nil {
			return fmt.Errorf("load passed quizzes: %w", err)
		}
		passed = progression.NewPassedQuizzes(ids...)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if progress == nil {
		progress = progression.Progress{}
	}
	return progress, passed, nil
}

func findLesson(course *types.Course, sectionID, lessonID uuid.UUID) (*types.Section, *types.Lesson) {
	for i := range course.Sections {
		s := &course.Sections[i]
		if s.ID != sectionID {
			continue
		}
		for j := range s.Lessons {
			if s.Lessons[j].ID == lessonID {
				return s, &s.Lessons[j]
			}
		}
		return s, nil
	}
	return nil, nil
}
