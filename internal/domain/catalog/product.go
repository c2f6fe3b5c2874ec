package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a standalone digital good (ebook, template pack) sold next to courses.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	PriceAmount int64     `gorm:"column:price_amount;not null;default:0" json:"price_amount"`
	Currency    string    `gorm:"column:currency;not null;default:'IDR'" json:"currency"`
	DownloadURL string    `gorm:"column:download_url" json:"download_url,omitempty"`
	IsPublished bool      `gorm:"column:is_published;not null;default:false" json:"is_published"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
