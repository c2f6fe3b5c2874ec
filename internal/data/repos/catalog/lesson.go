package catalog

import (
	"database/sql"

	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// LessonLocation is where a lesson sits in the catalog tree.
type LessonLocation struct {
	LessonID  uuid.UUID
	SectionID uuid.UUID
	CourseID  uuid.UUID
}

type LessonRepo interface {
	Create(dbc dbctx.Context, lesson *types.Lesson) (*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	ListBySectionID(dbc dbctx.Context, sectionID uuid.UUID) ([]*types.Lesson, error)
	Locate(dbc dbctx.Context, lessonID uuid.UUID) (*LessonLocation, error)
	NextOrder(dbc dbctx.Context, sectionID uuid.UUID) (int, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lesson *types.Lesson) (*types.Lesson, error) {
	if err := dbc.DB(r.db).Omit("Quiz", "Attachments").Create(lesson).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Lesson
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *lessonRepo) ListBySectionID(dbc dbctx.Context, sectionID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if sectionID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("section_id = ?", sectionID).Order("sort_order ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) Locate(dbc dbctx.Context, lessonID uuid.UUID) (*LessonLocation, error) {
	if lessonID == uuid.Nil {
		return nil, nil
	}
	var rows []struct {
		LessonID  uuid.UUID
		SectionID uuid.UUID
		CourseID  uuid.UUID
	}
	err := dbc.DB(r.db).
		Table("lesson AS l").
		Select("l.id AS lesson_id, l.section_id AS section_id, s.course_id AS course_id").
		Joins("JOIN course_section AS s ON s.id = l.section_id").
		Where("l.id = ?", lessonID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &LessonLocation{LessonID: rows[0].LessonID, SectionID: rows[0].SectionID, CourseID: rows[0].CourseID}, nil
}

func (r *lessonRepo) NextOrder(dbc dbctx.Context, sectionID uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	row := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("section_id = ?", sectionID).
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

func (r *lessonRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Lesson{}).Where("id = ?", id).Updates(updates).Error
}

func (r *lessonRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := deleteLessonChildren(tx, []uuid.UUID{id}); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&types.Lesson{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
