package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonProgress has one row per (user, lesson); writes go through an upsert.
type LessonProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_progress_user_lesson,unique" json:"user_id"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_progress_user_lesson,unique;index" json:"lesson_id"`
	Completed   bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
