package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_section_order,unique" json:"section_id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Content   *string   `gorm:"column:content;type:text" json:"content,omitempty"`
	VideoID   *string   `gorm:"column:video_id" json:"video_id,omitempty"`
	Order     int       `gorm:"column:sort_order;not null;index:idx_lesson_section_order,unique" json:"order"`
	IsHidden  bool      `gorm:"column:is_hidden;not null;default:false" json:"is_hidden"`

	Quiz        *Quiz        `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"quiz,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// MandatoryQuizID returns the id of the lesson's quiz when passing it gates the next lesson.
func (l *Lesson) MandatoryQuizID() (uuid.UUID, bool) {
	if l == nil || l.Quiz == nil || !l.Quiz.IsMandatory {
		return uuid.Nil, false
	}
	return l.Quiz.ID, true
}

type Attachment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Name     string    `gorm:"column:name;not null" json:"name"`
	URL      string    `gorm:"column:url;not null" json:"url"`
	Order    int       `gorm:"column:sort_order;not null;default:0" json:"order"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Attachment) TableName() string { return "lesson_attachment" }

func (a *Attachment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
