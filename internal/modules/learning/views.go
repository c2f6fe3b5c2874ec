package learning

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/modules/learning/progression"
)

// QuestionView is a question as shown to a learner; the answer key stays server side.
type QuestionView struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Options []string  `json:"options"`
}

type QuizView struct {
	ID           uuid.UUID      `json:"id"`
	IsMandatory  bool           `json:"is_mandatory"`
	PassingScore int            `json:"passing_score"`
	Questions    []QuestionView `json:"questions"`
	Passed       bool           `json:"passed"`
}

type LessonRef struct {
	ID        uuid.UUID `json:"id"`
	SectionID uuid.UUID `json:"section_id"`
	Title     string    `json:"title"`
}

type OutlineLesson struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Locked    bool      `json:"locked"`
	Completed bool      `json:"completed"`
	HasQuiz   bool      `json:"has_quiz"`
	Mandatory bool      `json:"mandatory_quiz"`
	IsHidden  bool      `json:"is_hidden,omitempty"`
}

type OutlineSection struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Order    int             `json:"order"`
	IsHidden bool            `json:"is_hidden,omitempty"`
	Lessons  []OutlineLesson `json:"lessons"`
}

type Outline struct {
	CourseID                  uuid.UUID            `json:"course_id"`
	Slug                      string               `json:"slug"`
	Title                     string               `json:"title"`
	Description               string               `json:"description"`
	RequireSequentialProgress bool                 `json:"require_sequential_progress"`
	Entitled                  bool                 `json:"entitled"`
	Sections                  []OutlineSection     `json:"sections"`
	Progress                  *progression.Summary `json:"progress,omitempty"`
}

type LessonPage struct {
	CourseID  uuid.UUID `json:"course_id"`
	SectionID uuid.UUID `json:"section_id"`
	LessonID  uuid.UUID `json:"lesson_id"`
	Title     string    `json:"title"`

	// Entitled false means the caller has not bought the course; nothing below is filled.
	Entitled bool `json:"entitled"`
	// Locked means sequential progress keeps this lesson closed; content is withheld.
	Locked bool `json:"locked"`

	Content     *string            `json:"content,omitempty"`
	VideoID     *string            `json:"video_id,omitempty"`
	Attachments []types.Attachment `json:"attachments,omitempty"`
	Quiz        *QuizView          `json:"quiz,omitempty"`

	Completed  bool               `json:"completed"`
	CanAdvance bool               `json:"can_advance"`
	Prev       *LessonRef         `json:"prev,omitempty"`
	Next       *LessonRef         `json:"next,omitempty"`
	LockState  map[uuid.UUID]bool `json:"lock_state,omitempty"`
}

type DashboardCourse struct {
	CourseID uuid.UUID           `json:"course_id"`
	Slug     string              `json:"slug"`
	Title    string              `json:"title"`
	Progress progression.Summary `json:"progress"`
}

type Dashboard struct {
	Courses []DashboardCourse `json:"courses"`
}

type AttemptResult struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	QuizID    uuid.UUID `json:"quiz_id"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Score     int       `json:"score"`
	Passed    bool      `json:"passed"`
	// EverPassed is the best-ever flag that gates progression.
	EverPassed bool      `json:"ever_passed"`
	CreatedAt  time.Time `json:"created_at"`
}

type CompletionResult struct {
	LessonID    uuid.UUID  `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	State       string     `json:"state"`
}

func quizView(q *types.Quiz, passed bool) *QuizView {
	if q == nil {
		return nil
	}
	out := &QuizView{
		ID:           q.ID,
		IsMandatory:  q.IsMandatory,
		PassingScore: q.PassingScore,
		Passed:       passed,
		Questions:    make([]QuestionView, 0, len(q.Questions)),
	}
	for _, qq := range q.Questions {
		out.Questions = append(out.Questions, QuestionView{
			ID:      qq.ID,
			Text:    qq.Text,
			Options: append([]string(nil), qq.Options...),
		})
	}
	return out
}

func lessonRef(l *types.Lesson) *LessonRef {
	if l == nil {
		return nil
	}
	return &LessonRef{ID: l.ID, SectionID: l.SectionID, Title: l.Title}
}
