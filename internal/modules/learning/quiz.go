package learning

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/modules/learning/grading"
	"github.com/yungbote/coursehub-backend/internal/modules/learning/progression"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/realtime/bus"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type SubmitQuizInput struct {
	Authz   services.Authz
	QuizID  uuid.UUID
	Answers []int
}

// SubmitQuiz grades one attempt and stores it. Attempts are never rewritten, and
// grading never marks the lesson complete.
func (u Usecases) SubmitQuiz(ctx context.Context, in SubmitQuizInput) (*AttemptResult, error) {
	ctx, span := tracer.Start(ctx, "learning.SubmitQuiz")
	defer span.End()
	span.SetAttributes(attribute.String("quiz_id", in.QuizID.String()))

	quiz, course, err := u.openQuiz(ctx, in.Authz, in.QuizID)
	if err != nil {
		return nil, err
	}
	if err := grading.ValidateGradable(quiz); err != nil {
		return nil, err
	}
	if err := grading.CheckAnswers(quiz, in.Answers); err != nil {
		return nil, err
	}
	res, err := grading.Grade(quiz, in.Answers)
	if err != nil {
		return nil, err
	}

	attempt, err := u.deps.Attempts.Create(dbctx.New(ctx), &types.QuizAttempt{
		QuizID:  quiz.ID,
		UserID:  in.Authz.UserID,
		Answers: append([]int(nil), in.Answers...),
		Correct: res.Correct,
		Total:   res.Total,
		Score:   res.Score,
		Passed:  res.Passed,
	})
	if err != nil {
		return nil, fmt.Errorf("store attempt: %w", err)
	}

	everPassed := res.Passed
	if !everPassed {
		if everPassed, err = u.deps.Attempts.HasPassed(dbctx.New(ctx), in.Authz.UserID, quiz.ID); err != nil {
			return nil, fmt.Errorf("check passed: %w", err)
		}
	}

	span.SetAttributes(attribute.Int("score", res.Score), attribute.Bool("passed", res.Passed))
	u.deps.Log.Info("quiz attempted",
		"quiz_id", quiz.ID,
		"course_id", course.ID,
		"user_id", in.Authz.UserID,
		"score", res.Score,
		"passed", res.Passed,
	)
	services.PublishEvent(ctx, u.deps.Log, u.deps.Events, bus.EventQuizAttempted, in.Authz.UserID, map[string]any{
		"quiz_id":     quiz.ID,
		"course_id":   course.ID,
		"lesson_id":   quiz.LessonID,
		"score":       res.Score,
		"passed":      res.Passed,
		"ever_passed": everPassed,
	})

	return &AttemptResult{
		AttemptID:  attempt.ID,
		QuizID:     quiz.ID,
		Correct:    res.Correct,
		Total:      res.Total,
		Score:      res.Score,
		Passed:     res.Passed,
		EverPassed: everPassed,
		CreatedAt:  attempt.CreatedAt,
	}, nil
}

// ListAttempts returns the caller's attempts on quizID, newest first.
func (u Usecases) ListAttempts(ctx context.Context, authz services.Authz, quizID uuid.UUID) ([]AttemptResult, error) {
	if authz.Anonymous() {
		return nil, apierr.Unauthorized("unauthorized", "")
	}
	attempts, err := u.deps.Attempts.ListByUserAndQuiz(dbctx.New(ctx), authz.UserID, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	everPassed := grading.HasPassed(attempts)
	out := make([]AttemptResult, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, AttemptResult{
			AttemptID:  a.ID,
			QuizID:     a.QuizID,
			Correct:    a.Correct,
			Total:      a.Total,
			Score:      a.Score,
			Passed:     a.Passed,
			EverPassed: everPassed,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out, nil
}

func (u Usecases) HasPassedQuiz(ctx context.Context, userID, quizID uuid.UUID) (bool, error) {
	return u.deps.Attempts.HasPassed(dbctx.New(ctx), userID, quizID)
}

// openQuiz resolves the quiz and its course and applies the same gates as the
// lesson page: hidden lessons are not found, unentitled callers are refused and
// a locked lesson's quiz cannot be taken.
func (u Usecases) openQuiz(ctx context.Context, authz services.Authz, quizID uuid.UUID) (*types.Quiz, *types.Course, error) {
	if authz.Anonymous() {
		return nil, nil, apierr.Unauthorized("unauthorized", "")
	}
	quiz, err := u.deps.Quizzes.GetByID(dbctx.New(ctx), quizID)
	if err != nil {
		return nil, nil, fmt.Errorf("load quiz: %w", err)
	}
	if quiz == nil {
		return nil, nil, apierr.NotFound("quiz_not_found", "")
	}
	loc, err := u.deps.Lessons.Locate(dbctx.New(ctx), quiz.LessonID)
	if err != nil {
		return nil, nil, fmt.Errorf("locate lesson: %w", err)
	}
	if loc == nil {
		return nil, nil, apierr.NotFound("quiz_not_found", "")
	}
	course, err := u.loadCourse(ctx, loc.CourseID)
	if err != nil {
		return nil, nil, err
	}
	section, lesson := findLesson(course, loc.SectionID, loc.LessonID)
	if section == nil || lesson == nil {
		return nil, nil, apierr.NotFound("quiz_not_found", "")
	}
	if authz.IsAdmin {
		return quiz, course, nil
	}
	if section.IsHidden || lesson.IsHidden {
		return nil, nil, apierr.NotFound("quiz_not_found", "")
	}

	entitled, err := u.deps.Access.HasCourseAccess(ctx, authz, course.ID)
	if err != nil {
		return nil, nil, err
	}
	if !entitled {
		return nil, nil, apierr.Forbidden("not_entitled", "course not purchased")
	}

	if course.RequireSequentialProgress {
		progress, passed, err := u.learnerState(ctx, authz.UserID, course)
		if err != nil {
			return nil, nil, err
		}
		if progression.ComputeLockState(course, progress, passed)[lesson.ID] {
			return nil, nil, apierr.Forbidden("lesson_locked", "complete the previous lesson first")
		}
	}
	return quiz, course, nil
}
