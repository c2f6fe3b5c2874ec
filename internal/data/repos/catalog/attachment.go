package catalog

import (
	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type AttachmentRepo interface {
	Create(dbc dbctx.Context, attachment *types.Attachment) (*types.Attachment, error)
	ListByLessonID(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Attachment, error)
	Delete(dbc dbctx.Context, lessonID, id uuid.UUID) (bool, error)
}

type attachmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttachmentRepo(db *gorm.DB, baseLog *logger.Logger) AttachmentRepo {
	return &attachmentRepo{db: db, log: baseLog.With("repo", "AttachmentRepo")}
}

func (r *attachmentRepo) Create(dbc dbctx.Context, attachment *types.Attachment) (*types.Attachment, error) {
	if err := dbc.DB(r.db).Create(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

func (r *attachmentRepo) ListByLessonID(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Attachment, error) {
	var out []*types.Attachment
	if lessonID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("lesson_id = ?", lessonID).Order("sort_order ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete only removes the attachment when it belongs to lessonID.
func (r *attachmentRepo) Delete(dbc dbctx.Context, lessonID, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ? AND lesson_id = ?", id, lessonID).Delete(&types.Attachment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
