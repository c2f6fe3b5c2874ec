package catalog

import (
	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type QuizRepo interface {
	Create(dbc dbctx.Context, quiz *types.Quiz) (*types.Quiz, error)
	// GetByID preloads questions in order.
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error)
	GetByLessonID(dbc dbctx.Context, lessonID uuid.UUID) (*types.Quiz, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(dbc dbctx.Context, quiz *types.Quiz) (*types.Quiz, error) {
	if err := dbc.DB(r.db).Omit("Questions").Create(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *quizRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

func (r *quizRepo) GetByLessonID(dbc dbctx.Context, lessonID uuid.UUID) (*types.Quiz, error) {
	if lessonID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "lesson_id = ?", lessonID)
}

func (r *quizRepo) first(dbc dbctx.Context, query string, arg any) (*types.Quiz, error) {
	var out types.Quiz
	err := dbc.DB(r.db).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC, id ASC") }).
		Where(query, arg).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *quizRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Quiz{}).Where("id = ?", id).Updates(updates).Error
}

func (r *quizRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&types.Question{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&types.Quiz{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
