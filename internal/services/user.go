package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type UserService interface {
	// Ensure mirrors the identity locally, creating the user on first sight.
	Ensure(ctx context.Context, id Identity) (*types.User, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	List(ctx context.Context, limit, offset int) ([]*types.User, int64, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	now      func() time.Time
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (us *userService) Ensure(ctx context.Context, id Identity) (*types.User, error) {
	if id.ExternalID == "" || id.Email == "" {
		return nil, apierr.Unauthorized("invalid_identity", "identity missing sub or email")
	}
	u, err := us.userRepo.UpsertByExternalID(dbctx.New(ctx), id.ExternalID, id.Email, id.Name, us.now().UTC())
	if err != nil {
		us.log.Error("ensure user failed", "external_id", id.ExternalID, "error", err)
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return u, nil
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "")
	}
	u, err := us.userRepo.GetByID(dbctx.New(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", "")
	}
	return u, nil
}

func (us *userService) List(ctx context.Context, limit, offset int) ([]*types.User, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return us.userRepo.List(dbctx.New(ctx), limit, offset)
}
