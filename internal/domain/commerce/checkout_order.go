package commerce

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderExpired   OrderStatus = "expired"
	OrderCancelled OrderStatus = "cancelled"
	OrderFailed    OrderStatus = "failed"
)

func (s OrderStatus) Terminal() bool { return s != OrderPending }

// CheckoutOrder tracks one payment-provider transaction until its webhook settles it.
type CheckoutOrder struct {
	ID          string      `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	ItemType    ItemType    `gorm:"column:item_type;type:varchar(16);not null" json:"item_type"`
	ItemID      uuid.UUID   `gorm:"type:uuid;not null" json:"item_id"`
	Amount      int64       `gorm:"column:amount;not null" json:"amount"`
	Currency    string      `gorm:"column:currency;not null" json:"currency"`
	Status      OrderStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	SnapToken   string      `gorm:"column:snap_token" json:"-"`
	RedirectURL string      `gorm:"column:redirect_url" json:"redirect_url,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (CheckoutOrder) TableName() string { return "checkout_order" }
