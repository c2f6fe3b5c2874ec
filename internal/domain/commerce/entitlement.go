package commerce

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemType string

const (
	ItemCourse  ItemType = "course"
	ItemProduct ItemType = "product"
)

func ParseItemType(s string) (ItemType, error) {
	switch ItemType(strings.ToLower(strings.TrimSpace(s))) {
	case ItemCourse:
		return ItemCourse, nil
	case ItemProduct:
		return ItemProduct, nil
	default:
		return "", fmt.Errorf("unknown item type %q", s)
	}
}

type Source string

const (
	SourceCheckout   Source = "checkout"
	SourceAdminGrant Source = "admin_grant"
)

// Entitlement is a purchase or grant of one course or product. Existence of the
// row is the access signal; AmountPaid 0 marks a grant. Rows are never updated,
// revocation deletes them.
type Entitlement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_entitlement_user_item,unique" json:"user_id"`
	ItemType   ItemType  `gorm:"column:item_type;type:varchar(16);not null;index:idx_entitlement_user_item,unique" json:"item_type"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index:idx_entitlement_user_item,unique;index" json:"item_id"`
	AmountPaid int64     `gorm:"column:amount_paid;not null;default:0" json:"amount_paid"`
	Currency   string    `gorm:"column:currency;not null;default:'IDR'" json:"currency"`
	Source     Source    `gorm:"column:source;type:varchar(32);not null" json:"source"`
	OrderID    *string   `gorm:"column:order_id" json:"order_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Entitlement) TableName() string { return "entitlement" }

func (e *Entitlement) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Entitlement) IsGrant() bool { return e != nil && e.AmountPaid == 0 }
