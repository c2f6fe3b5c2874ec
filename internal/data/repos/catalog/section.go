package catalog

import (
	"database/sql"

	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type SectionRepo interface {
	Create(dbc dbctx.Context, section *types.Section) (*types.Section, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Section, error)
	ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Section, error)
	NextOrder(dbc dbctx.Context, courseID uuid.UUID) (int, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return &sectionRepo{db: db, log: baseLog.With("repo", "SectionRepo")}
}

func (r *sectionRepo) Create(dbc dbctx.Context, section *types.Section) (*types.Section, error) {
	if err := dbc.DB(r.db).Create(section).Error; err != nil {
		return nil, err
	}
	return section, nil
}

func (r *sectionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Section, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Section
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *sectionRepo) ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Section, error) {
	var out []*types.Section
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("course_id = ?", courseID).Order("sort_order ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sectionRepo) NextOrder(dbc dbctx.Context, courseID uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	row := dbc.DB(r.db).
		Model(&types.Section{}).
		Where("course_id = ?", courseID).
		Select("MAX(sort_order)").
		Row()
	if err := row.Scan(&maxOrder); err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func (r *sectionRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Section{}).Where("id = ?", id).Updates(updates).Error
}

func (r *sectionRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := deleteSectionChildren(tx, []uuid.UUID{id}); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&types.Section{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
