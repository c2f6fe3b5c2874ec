package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/realtime/bus"
)

// Purchase is a settled payment for one item.
type Purchase struct {
	UserID   uuid.UUID
	ItemType types.ItemType
	ItemID   uuid.UUID
	Amount   int64
	Currency string
	OrderID  string
}

// AccessService answers "may this caller see item X". A missing entitlement is
// reported as false, never as an error.
type AccessService interface {
	HasCourseAccess(ctx context.Context, authz Authz, courseID uuid.UUID) (bool, error)
	HasProductAccess(ctx context.Context, authz Authz, productID uuid.UUID) (bool, error)
	// Grant gives userID the item for free. Granting twice keeps the first row.
	Grant(ctx context.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) (*types.Entitlement, bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) error
	RecordPurchase(dbc dbctx.Context, p Purchase) (*types.Entitlement, bool, error)
	ListEntitlements(ctx context.Context, userID uuid.UUID) ([]*types.Entitlement, error)
	EntitledCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type accessService struct {
	log          *logger.Logger
	entitlements repos.EntitlementRepo
	courses      repos.CourseRepo
	products     repos.ProductRepo
	events       bus.Bus
}

func NewAccessService(log *logger.Logger, entitlements repos.EntitlementRepo, courses repos.CourseRepo, products repos.ProductRepo, events bus.Bus) AccessService {
	return &accessService{
		log:          log.With("service", "AccessService"),
		entitlements: entitlements,
		courses:      courses,
		products:     products,
		events:       events,
	}
}

func (s *accessService) HasCourseAccess(ctx context.Context, authz Authz, courseID uuid.UUID) (bool, error) {
	return s.has(ctx, authz, types.ItemCourse, courseID)
}

func (s *accessService) HasProductAccess(ctx context.Context, authz Authz, productID uuid.UUID) (bool, error) {
	return s.has(ctx, authz, types.ItemProduct, productID)
}

func (s *accessService) has(ctx context.Context, authz Authz, itemType types.ItemType, itemID uuid.UUID) (bool, error) {
	if authz.IsAdmin {
		return true, nil
	}
	if authz.UserID == uuid.Nil || itemID == uuid.Nil {
		return false, nil
	}
	ok, err := s.entitlements.Exists(dbctx.New(ctx), authz.UserID, itemType, itemID)
	if err != nil {
		return false, fmt.Errorf("check %s access: %w", itemType, err)
	}
	return ok, nil
}

func (s *accessService) Grant(ctx context.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) (*types.Entitlement, bool, error) {
	if userID == uuid.Nil {
		return nil, false, apierr.Validation("invalid_user_id", "user_id is required")
	}
	currency, err := s.itemCurrency(ctx, itemType, itemID)
	if err != nil {
		return nil, false, err
	}
	e, created, err := s.entitlements.CreateIfAbsent(dbctx.New(ctx), &types.Entitlement{
		UserID:     userID,
		ItemType:   itemType,
		ItemID:     itemID,
		AmountPaid: 0,
		Currency:   currency,
		Source:     types.SourceAdminGrant,
	})
	if err != nil {
		return nil, false, fmt.Errorf("grant %s: %w", itemType, err)
	}
	if created {
		s.log.Info("entitlement granted", "user_id", userID, "item_type", itemType, "item_id", itemID)
		s.publish(ctx, bus.EventEntitlementGranted, userID, e)
	}
	return e, created, nil
}

func (s *accessService) Revoke(ctx context.Context, userID uuid.UUID, itemType types.ItemType, itemID uuid.UUID) error {
	deleted, err := s.entitlements.Delete(dbctx.New(ctx), userID, itemType, itemID)
	if err != nil {
		return fmt.Errorf("revoke %s: %w", itemType, err)
	}
	if !deleted {
		return apierr.NotFound("entitlement_not_found", "no %s entitlement for user", itemType)
	}
	s.log.Info("entitlement revoked", "user_id", userID, "item_type", itemType, "item_id", itemID)
	s.publish(ctx, bus.EventEntitlementRevoked, userID, map[string]any{"item_type": itemType, "item_id": itemID})
	return nil
}

// RecordPurchase runs inside the caller's transaction when dbc carries one.
// A second settlement for the same item is absorbed.
func (s *accessService) RecordPurchase(dbc dbctx.Context, p Purchase) (*types.Entitlement, bool, error) {
	if p.UserID == uuid.Nil || p.ItemID == uuid.Nil {
		return nil, false, apierr.Validation("invalid_purchase", "user and item are required")
	}
	e := &types.Entitlement{
		UserID:     p.UserID,
		ItemType:   p.ItemType,
		ItemID:     p.ItemID,
		AmountPaid: p.Amount,
		Currency:   p.Currency,
		Source:     types.SourceCheckout,
	}
	if p.OrderID != "" {
		orderID := p.OrderID
		e.OrderID = &orderID
	}
	stored, created, err := s.entitlements.CreateIfAbsent(dbc, e)
	if err != nil {
		return nil, false, fmt.Errorf("record purchase: %w", err)
	}
	if created {
		s.publish(dbc.Ctx, bus.EventEntitlementGranted, p.UserID, stored)
	}
	return stored, created, nil
}

func (s *accessService) ListEntitlements(ctx context.Context, userID uuid.UUID) ([]*types.Entitlement, error) {
	return s.entitlements.ListByUserID(dbctx.New(ctx), userID)
}

func (s *accessService) EntitledCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.entitlements.ItemIDs(dbctx.New(ctx), userID, types.ItemCourse)
}

func (s *accessService) itemCurrency(ctx context.Context, itemType types.ItemType, itemID uuid.UUID) (string, error) {
	switch itemType {
	case types.ItemCourse:
		c, err := s.courses.GetByID(dbctx.New(ctx), itemID)
		if err != nil {
			return "", fmt.Errorf("load course: %w", err)
		}
		if c == nil {
			return "", apierr.NotFound("course_not_found", "")
		}
		return c.Currency, nil
	case types.ItemProduct:
		p, err := s.products.GetByID(dbctx.New(ctx), itemID)
		if err != nil {
			return "", fmt.Errorf("load product: %w", err)
		}
		if p == nil {
			return "", apierr.NotFound("product_not_found", "")
		}
		return p.Currency, nil
	default:
		return "", apierr.Validation("invalid_item_type", "unknown item type %q", itemType)
	}
}

func (s *accessService) publish(ctx context.Context, typ string, userID uuid.UUID, data any) {
	PublishEvent(ctx, s.log, s.events, typ, userID, data)
}
