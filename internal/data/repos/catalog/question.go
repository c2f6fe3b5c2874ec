package catalog

import (
	"database/sql"

	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type QuestionRepo interface {
	Create(dbc dbctx.Context, question *types.Question) (*types.Question, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error)
	NextOrder(dbc dbctx.Context, quizID uuid.UUID) (int, error)
	CountByQuizID(dbc dbctx.Context, quizID uuid.UUID) (int64, error)
	Save(dbc dbctx.Context, question *types.Question) error
	Delete(dbc dbctx.Context, quizID, id uuid.UUID) (bool, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(dbc dbctx.Context, question *types.Question) (*types.Question, error) {
	if err := dbc.DB(r.db).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Question
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *questionRepo) NextOrder(dbc dbctx.Context, quizID uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	row := dbc.DB(r.db).
		Model(&types.Question{}).
		Where("quiz_id = ?", quizID).
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

func (r *questionRepo) CountByQuizID(dbc dbctx.Context, quizID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Question{}).Where("quiz_id = ?", quizID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Save writes every column, including zero values such as CorrectIndex 0.
func (r *questionRepo) Save(dbc dbctx.Context, question *types.Question) error {
	return dbc.DB(r.db).Save(question).Error
}

func (r *questionRepo) Delete(dbc dbctx.Context, quizID, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ? AND quiz_id = ?", id, quizID).Delete(&types.Question{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
