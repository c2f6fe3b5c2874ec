package learning

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/modules/learning/progression"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/services"
)

// CourseOutline is the sidebar: every visible lesson with its lock and completion
// flags. Unentitled callers get the bare structure with nothing locked or completed.
func (u Usecases) CourseOutline(ctx context.Context, authz services.Authz, courseID uuid.UUID) (*Outline, error) {
	ctx, span := tracer.Start(ctx, "learning.CourseOutline")
	defer span.End()

	course, err := u.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished && !authz.IsAdmin {
		return nil, apierr.NotFound("course_not_found", "")
	}

	out := &Outline{
		CourseID:                  course.ID,
		Slug:                      course.Slug,
		Title:                     course.Title,
		Description:               course.Description,
		RequireSequentialProgress: course.RequireSequentialProgress,
	}

	entitled := false
	if !authz.Anonymous() {
		if entitled, err = u.deps.Access.HasCourseAccess(ctx, authz, course.ID); err != nil {
			return nil, err
		}
	}
	out.Entitled = entitled

	progress := progression.Progress{}
	passed := progression.NewPassedQuizzes()
	if entitled {
		if progress, passed, err = u.learnerState(ctx, authz.UserID, course); err != nil {
			return nil, err
		}
		summary := progression.Summarize(course, progress)
		out.Progress = &summary
	}
	locks := progression.ComputeLockState(course, progress, passed)

	sections := append([]types.Section(nil), course.Sections...)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	for _, s := range sections {
		if s.IsHidden && !authz.IsAdmin {
			continue
		}
		view := OutlineSection{ID: s.ID, Title: s.Title, Order: s.Order, IsHidden: s.IsHidden}
		lessons := append([]types.Lesson(nil), s.Lessons...)
		sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
		for i := range lessons {
			l := &lessons[i]
			if l.IsHidden && !authz.IsAdmin {
				continue
			}
			_, mandatory := l.MandatoryQuizID()
			view.Lessons = append(view.Lessons, OutlineLesson{
				ID:        l.ID,
				Title:     l.Title,
				Order:     l.Order,
				Locked:    entitled && !authz.IsAdmin && locks[l.ID],
				Completed: progress[l.ID],
				HasQuiz:   l.Quiz != nil,
				Mandatory: mandatory,
				IsHidden:  l.IsHidden,
			})
		}
		out.Sections = append(out.Sections, view)
	}
	return out, nil
}

// Dashboard lists the caller's entitled courses with progress.
func (u Usecases) Dashboard(ctx context.Context, authz services.Authz) (*Dashboard, error) {
	if authz.Anonymous() {
		return nil, apierr.Unauthorized("unauthorized", "")
	}
	ids, err := u.deps.Access.EntitledCourseIDs(ctx, authz.UserID)
	if err != nil {
		return nil, fmt.Errorf("list entitled courses: %w", err)
	}
	out := &Dashboard{Courses: []DashboardCourse{}}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := u.deps.CourseRepo.GetByIDs(dbctx.New(ctx), ids)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Title < rows[j].Title })

	for _, row := range rows {
		course, err := u.deps.Courses.Get(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("load course tree: %w", err)
		}
		if course == nil {
			continue
		}
		progress, err := u.deps.Progress.CompletedMap(dbctx.New(ctx), authz.UserID, progression.LessonIDs(course))
		if err != nil {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		out.Courses = append(out.Courses, DashboardCourse{
			CourseID: course.ID,
			Slug:     course.Slug,
			Title:    course.Title,
			Progress: progression.Summarize(course, progress),
		})
	}
	return out, nil
}
