package learning

import (
	"errors"

	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// QuizAttemptRepo has no update or delete: attempts are history.
type QuizAttemptRepo interface {
	Create(dbc dbctx.Context, attempt *types.QuizAttempt) (*types.QuizAttempt, error)
	ListByUserAndQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error)
	HasPassed(dbc dbctx.Context, userID, quizID uuid.UUID) (bool, error)
	// PassedQuizIDs returns the subset of quizIDs with at least one passing attempt by userID.
	PassedQuizIDs(dbc dbctx.Context, userID uuid.UUID, quizIDs []uuid.UUID) ([]uuid.UUID, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, attempt *types.QuizAttempt) (*types.QuizAttempt, error) {
	if attempt == nil {
		return nil, errors.New("nil attempt")
	}
	// Always a fresh row; a caller-supplied id would turn a retry into a conflict.
	attempt.ID = uuid.New()
	if err := dbc.DB(r.db).Create(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}

func (r *quizAttemptRepo) ListByUserAndQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if userID == uuid.Nil || quizID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizAttemptRepo) HasPassed(dbc dbctx.Context, userID, quizID uuid.UUID) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *quizAttemptRepo) PassedQuizIDs(dbc dbctx.Context, userID uuid.UUID, quizIDs []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if userID == uuid.Nil || len(quizIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.QuizAttempt{}).
		Distinct("quiz_id").
		Where("user_id = ? AND quiz_id IN ? AND passed = ?", userID, quizIDs, true).
		Pluck("quiz_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
