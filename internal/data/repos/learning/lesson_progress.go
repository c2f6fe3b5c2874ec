package learning

import (
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonProgressRepo interface {
	// Upsert sets the completion flag for (userID, lessonID). Repeating a call is a no-op in effect.
	Upsert(dbc dbctx.Context, userID, lessonID uuid.UUID, completed bool, at time.Time) (*types.LessonProgress, error)
	Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	GetByUserAndLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error)
	// CompletedMap returns lessonID -> completed for the given lessons. Missing rows are absent.
	CompletedMap(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *lessonProgressRepo) Upsert(dbc dbctx.Context, userID, lessonID uuid.UUID, completed bool, at time.Time) (*types.LessonProgress, error) {
	row := &types.LessonProgress{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: completed,
	}
	if completed {
		ts := at.UTC()
		row.CompletedAt = &ts
	}

	err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(dbc, userID, lessonID)
}

func (r *lessonProgressRepo) Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	var out types.LessonProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *lessonProgressRepo) GetByUserAndLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error) {
	var out []*types.LessonProgress
	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonProgressRepo) CompletedMap(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.GetByUserAndLessonIDs(dbc, userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		out[row.LessonID] = row.Completed
	}
	return out, nil
}
