package commerce

import (
	"errors"

	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntitlementRepo interface {
	// CreateIfAbsent inserts e unless (user, item) already has a row. It returns the stored
	// row and whether this call created it.
	CreateIfAbsent(dbc dbctx.Context, e *types.Entitlement) (*types.Entitlement, bool, error)
	Exists(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) (bool, error)
	Get(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) (*types.Entitlement, error)
	ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Entitlement, error)
	ItemIDs(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType) ([]uuid.UUID, error)
	Delete(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) (bool, error)
}

type entitlementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntitlementRepo(db *gorm.DB, baseLog *logger.Logger) EntitlementRepo {
	return &entitlementRepo{db: db, log: baseLog.With("repo", "EntitlementRepo")}
}

func (r *entitlementRepo) CreateIfAbsent(dbc dbctx.Context, e *types.Entitlement) (*types.Entitlement, bool, error) {
	if e == nil {
		return nil, false, errors.New("nil entitlement")
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_type"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(e)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0
	stored, err := r.Get(dbc, e.UserID, e.ItemType, e.ItemID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, errors.New("entitlement vanished after insert")
	}
	return stored, created, nil
}

func (r *entitlementRepo) Exists(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.Entitlement{}).
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *entitlementRepo) Get(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) (*types.Entitlement, error) {
	var out types.Entitlement
	if err := dbc.DB(r.db).
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *entitlementRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Entitlement, error) {
	var out []*types.Entitlement
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *entitlementRepo) ItemIDs(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Entitlement{}).
		Where("user_id = ? AND item_type = ?", userID, itemType).
		Pluck("item_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *entitlementRepo) Delete(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
		Delete(&types.Entitlement{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
