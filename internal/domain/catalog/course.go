package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	PriceAmount int64     `gorm:"column:price_amount;not null;default:0" json:"price_amount"`
	Currency    string    `gorm:"column:currency;not null;default:'IDR'" json:"currency"`
	IsPublished bool      `gorm:"column:is_published;not null;default:false" json:"is_published"`

	// When set, lessons unlock one after another; see modules/learning/progression.
	RequireSequentialProgress bool `gorm:"column:require_sequential_progress;not null;default:false" json:"require_sequential_progress"`

	Sections []Section `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type Section struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index:idx_section_course_order,unique" json:"course_id"`
	Title    string    `gorm:"column:title;not null" json:"title"`
	Order    int       `gorm:"column:sort_order;not null;index:idx_section_course_order,unique" json:"order"`
	IsHidden bool      `gorm:"column:is_hidden;not null;default:false" json:"is_hidden"`

	Lessons []Lesson `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Section) TableName() string { return "course_section" }

func (s *Section) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
