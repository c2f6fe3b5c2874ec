package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Quiz struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"lesson_id"`
	IsMandatory  bool      `gorm:"column:is_mandatory;not null;default:false" json:"is_mandatory"`
	PassingScore int       `gorm:"column:passing_score;not null;default:70" json:"passing_score"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }

func (q *Quiz) BeforeCreate(*gorm.DB) error {
	ensureID(&q.ID)
	return nil
}

type Question struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID       uuid.UUID                   `gorm:"type:uuid;not null;index:idx_question_quiz_order,unique" json:"quiz_id"`
	Text         string                      `gorm:"column:text;type:text;not null" json:"text"`
	Options      datatypes.JSONSlice[string] `gorm:"column:options;not null" json:"options"`
	CorrectIndex int                         `gorm:"column:correct_index;not null" json:"correct_index"`
	Order        int                         `gorm:"column:sort_order;not null;index:idx_question_quiz_order,unique" json:"order"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Question) TableName() string { return "quiz_question" }

func (q *Question) BeforeCreate(*gorm.DB) error {
	ensureID(&q.ID)
	return nil
}
