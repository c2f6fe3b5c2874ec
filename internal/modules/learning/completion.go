package learning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/modules/learning/completion"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/realtime/bus"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type SetCompletionInput struct {
	Authz     services.Authz
	LessonID  uuid.UUID
	Completed bool
}

// SetLessonCompletion records the learner's own completion flag. Quizzes are not
// consulted; a mandatory quiz gates the next lesson, not this toggle.
// The write is driven through a completion.Toggle so the caller always learns
// whether the new value stuck or the previous one was restored.
func (u Usecases) SetLessonCompletion(ctx context.Context, in SetCompletionInput) (*CompletionResult, error) {
	if in.Authz.Anonymous() {
		return nil, apierr.Unauthorized("unauthorized", "")
	}
	loc, err := u.deps.Lessons.Locate(dbctx.New(ctx), in.LessonID)
	if err != nil {
		return nil, fmt.Errorf("locate lesson: %w", err)
	}
	if loc == nil {
		return nil, apierr.NotFound("lesson_not_found", "")
	}
	entitled, err := u.deps.Access.HasCourseAccess(ctx, in.Authz, loc.CourseID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, apierr.Forbidden("not_entitled", "course not purchased")
	}

	current, err := u.deps.Progress.Get(dbctx.New(ctx), in.Authz.UserID, in.LessonID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	prior := current != nil && current.Completed

	toggle := completion.NewToggle(prior)
	if err := toggle.Begin(in.Completed); err != nil {
		return nil, err
	}

	// Already in the requested state: nothing to write.
	if current != nil && prior == in.Completed {
		_ = toggle.Confirm(prior)
		return &CompletionResult{
			LessonID:    in.LessonID,
			Completed:   prior,
			CompletedAt: current.CompletedAt,
			State:       string(toggle.State()),
		}, nil
	}

	row, werr := u.deps.Progress.Upsert(dbctx.New(ctx), in.Authz.UserID, in.LessonID, in.Completed, time.Now().UTC())
	if werr != nil {
		_ = toggle.Fail(werr)
		u.deps.Log.Warn("completion write failed, rolled back",
			"lesson_id", in.LessonID,
			"user_id", in.Authz.UserID,
			"error", werr,
		)
		return &CompletionResult{
			LessonID:  in.LessonID,
			Completed: toggle.Displayed(),
			State:     string(toggle.State()),
		}, apierr.Internal("completion_write_failed", werr)
	}
	_ = toggle.Confirm(row.Completed)

	services.PublishEvent(ctx, u.deps.Log, u.deps.Events, bus.EventLessonCompletionChange, in.Authz.UserID, map[string]any{
		"lesson_id": in.LessonID,
		"course_id": loc.CourseID,
		"completed": row.Completed,
	})
	return &CompletionResult{
		LessonID:    in.LessonID,
		Completed:   toggle.Displayed(),
		CompletedAt: row.CompletedAt,
		State:       string(toggle.State()),
	}, nil
}
