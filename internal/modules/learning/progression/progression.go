// Package progression decides which lessons of a course a learner may open.
//
// Everything here is pure: callers load the course tree, the learner's
// completion flags and the set of quizzes they have passed, and ask.
package progression

import (
	"sort"

	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
)

// Progress maps lesson id to the learner's completion flag. Absence means not completed.
type Progress map[uuid.UUID]bool

// PassedQuizzes holds the ids of quizzes with at least one passing attempt.
type PassedQuizzes map[uuid.UUID]struct{}

func NewPassedQuizzes(ids ...uuid.UUID) PassedQuizzes {
	out := make(PassedQuizzes, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func (p PassedQuizzes) Has(id uuid.UUID) bool {
	_, ok := p[id]
	return ok
}

// Flatten returns the visible lessons of course in reading order: sections by
// Order, then lessons by Order. Hidden sections drop all of their lessons.
func Flatten(course *types.Course) []*types.Lesson {
	if course == nil {
		return nil
	}
	sections := make([]*types.Section, 0, len(course.Sections))
	for i := range course.Sections {
		if !course.Sections[i].IsHidden {
			sections = append(sections, &course.Sections[i])
		}
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

	var out []*types.Lesson
	for _, s := range sections {
		lessons := make([]*types.Lesson, 0, len(s.Lessons))
		for i := range s.Lessons {
			if !s.Lessons[i].IsHidden {
				lessons = append(lessons, &s.Lessons[i])
			}
		}
		sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
		out = append(out, lessons...)
	}
	return out
}

// ComputeLockState returns lesson id -> locked for every visible lesson.
// With sequential progress off nothing is locked. With it on, the first
// lesson is open and every later lesson is locked unless its predecessor
// lets the learner through (see gateOpen).
func ComputeLockState(course *types.Course, progress Progress, passed PassedQuizzes) map[uuid.UUID]bool {
	seq := Flatten(course)
	out := make(map[uuid.UUID]bool, len(seq))
	for i, l := range seq {
		if i == 0 || !course.RequireSequentialProgress {
			out[l.ID] = false
			continue
		}
		out[l.ID] = !gateOpen(seq[i-1], progress, passed)
	}
	return out
}

// CanAdvance reports whether the learner may move on from lessonID. It is the
// forward reading of the same gate ComputeLockState applies backwards, so for
// every lesson with a successor CanAdvance == !locked(successor).
// Unknown or hidden lessons cannot be advanced from.
func CanAdvance(course *types.Course, lessonID uuid.UUID, progress Progress, passed PassedQuizzes) bool {
	if course == nil {
		return false
	}
	for _, l := range Flatten(course) {
		if l.ID != lessonID {
			continue
		}
		if !course.RequireSequentialProgress {
			return true
		}
		return gateOpen(l, progress, passed)
	}
	return false
}

// gateOpen: the lesson is completed and, when it carries a mandatory quiz, that
// quiz has been passed. Optional quizzes never hold anyone back.
func gateOpen(l *types.Lesson, progress Progress, passed PassedQuizzes) bool {
	if !progress[l.ID] {
		return false
	}
	if quizID, mandatory := l.MandatoryQuizID(); mandatory {
		return passed.Has(quizID)
	}
	return true
}

// Neighbors returns the visible lessons before and after lessonID. Either may be nil.
func Neighbors(course *types.Course, lessonID uuid.UUID) (prev, next *types.Lesson) {
	seq := Flatten(course)
	for i, l := range seq {
		if l.ID != lessonID {
			continue
		}
		if i > 0 {
			prev = seq[i-1]
		}
		if i+1 < len(seq) {
			next = seq[i+1]
		}
		return prev, next
	}
	return nil, nil
}

type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

// Summarize counts completed visible lessons. Percent is rounded to the nearest integer.
func Summarize(course *types.Course, progress Progress) Summary {
	seq := Flatten(course)
	s := Summary{Total: len(seq)}
	for _, l := range seq {
		if progress[l.ID] {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percent = (s.Completed*100 + s.Total/2) / s.Total
	}
	return s
}

// LessonIDs returns the ids of the visible lessons in order.
func LessonIDs(course *types.Course) []uuid.UUID {
	seq := Flatten(course)
	out := make([]uuid.UUID, 0, len(seq))
	for _, l := range seq {
		out = append(out, l.ID)
	}
	return out
}

// QuizIDs returns the ids of quizzes attached to visible lessons.
func QuizIDs(course *types.Course) []uuid.UUID {
	var out []uuid.UUID
	for _, l := range Flatten(course) {
		if l.Quiz != nil {
			out = append(out, l.Quiz.ID)
		}
	}
	return out
}
