package commerce

import (
	"errors"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CheckoutOrderRepo interface {
	Create(dbc dbctx.Context, order *types.CheckoutOrder) (*types.CheckoutOrder, error)
	GetByID(dbc dbctx.Context, id string) (*types.CheckoutOrder, error)
	AttachPayment(dbc dbctx.Context, id, snapToken, redirectURL string) error
	// Transition moves a pending order to status. It reports false when the order
	// was no longer pending, so redelivered webhooks are absorbed.
	Transition(dbc dbctx.Context, id string, status types.OrderStatus) (bool, error)
}

type checkoutOrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCheckoutOrderRepo(db *gorm.DB, baseLog *logger.Logger) CheckoutOrderRepo {
	return &checkoutOrderRepo{db: db, log: baseLog.With("repo", "CheckoutOrderRepo")}
}

func (r *checkoutOrderRepo) Create(dbc dbctx.Context, order *types.CheckoutOrder) (*types.CheckoutOrder, error) {
	if order == nil || order.ID == "" {
		return nil, errors.New("checkout order requires an id")
	}
	if order.Status == "" {
		order.Status = types.OrderPending
	}
	if err := dbc.DB(r.db).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *checkoutOrderRepo) GetByID(dbc dbctx.Context, id string) (*types.CheckoutOrder, error) {
	if id == "" {
		return nil, nil
	}
	var out types.CheckoutOrder
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (r *checkoutOrderRepo) AttachPayment(dbc dbctx.Context, id, snapToken, redirectURL string) error {
	return dbc.DB(r.db).
		Model(&types.CheckoutOrder{}).
		Where("id = ?", id).
		Updates(map[string]any{"snap_token": snapToken, "redirect_url": redirectURL}).Error
}

func (r *checkoutOrderRepo) Transition(dbc dbctx.Context, id string, status types.OrderStatus) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.CheckoutOrder{}).
		Where("id = ? AND status = ?", id, types.OrderPending).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
