package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is append-only. Retries insert a new row; nothing updates or deletes one.
type QuizAttempt struct {
	ID      uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID  uuid.UUID                `gorm:"type:uuid;not null;index:idx_attempt_user_quiz" json:"quiz_id"`
	UserID  uuid.UUID                `gorm:"type:uuid;not null;index:idx_attempt_user_quiz" json:"user_id"`
	Answers datatypes.JSONSlice[int] `gorm:"column:answers;not null" json:"answers"`
	Correct int                      `gorm:"column:correct;not null" json:"correct"`
	Total   int                      `gorm:"column:total;not null" json:"total"`
	Score   int                      `gorm:"column:score;not null" json:"score"`
	Passed  bool                     `gorm:"column:passed;not null;index" json:"passed"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

const Unanswered = -1
