package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/clients/midtrans"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type CheckoutInput struct {
	UserID   uuid.UUID
	Email    string
	Name     string
	ItemType types.ItemType
	ItemID   uuid.UUID
}

type CheckoutResult struct {
	OrderID     string            `json:"order_id,omitempty"`
	Status      types.OrderStatus `json:"status"`
	Token       string            `json:"token,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	// Free is set when the item cost nothing and access was recorded immediately.
	Free bool `json:"free"`
}

// Notification is the subset of the provider's webhook payload that settles an order.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

type NotificationResult struct {
	OrderID string            `json:"order_id"`
	Status  types.OrderStatus `json:"status"`
	// Applied is false when the notification repeated an already recorded outcome.
	Applied bool `json:"applied"`
}

type CheckoutService interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
	HandleNotification(ctx context.Context, n Notification) (*NotificationResult, error)
}

type checkoutService struct {
	db       *gorm.DB
	log      *logger.Logger
	orders   repos.CheckoutOrderRepo
	courses  repos.CourseRepo
	products repos.ProductRepo
	access   AccessService
	gateway  midtrans.Gateway
	newID    func() string
}

// NewCheckoutService accepts a nil gateway; paid checkouts then fail with 503
// while free items still work.
func NewCheckoutService(db *gorm.DB, log *logger.Logger, orders repos.CheckoutOrderRepo, courses repos.CourseRepo, products repos.ProductRepo, access AccessService, gateway midtrans.Gateway) CheckoutService {
	return &checkoutService{
		db:       db,
		log:      log.With("service", "CheckoutService"),
		orders:   orders,
		courses:  courses,
		products: products,
		access:   access,
		gateway:  gateway,
		newID:    func() string { return "ch-" + uuid.NewString() },
	}
}

type sellable struct {
	id       uuid.UUID
	title    string
	price    int64
	currency string
}

var checkoutTracer = otel.Tracer("github.com/yungbote/coursehub-backend/internal/services/checkout")

func (s *checkoutService) CreateCheckout(ctx context.Context, in CheckoutInput) (res *CheckoutResult, err error) {
	ctx, span := checkoutTracer.Start(ctx, "checkout.Create")
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("item_type", string(in.ItemType)),
		attribute.String("item_id", in.ItemID.String()),
	)

	if in.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "")
	}
	item, err := s.loadSellable(ctx, in.ItemType, in.ItemID)
	if err != nil {
		return nil, err
	}
	learner := Authz{UserID: in.UserID}
	var owned bool
	if in.ItemType == types.ItemCourse {
		owned, err = s.access.HasCourseAccess(ctx, learner, item.id)
	} else {
		owned, err = s.access.HasProductAccess(ctx, learner, item.id)
	}
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, apierr.Conflict("already_entitled", "user already has this %s", in.ItemType)
	}

	if item.price == 0 {
		if _, _, err := s.access.RecordPurchase(dbctx.New(ctx), Purchase{
			UserID:   in.UserID,
			ItemType: in.ItemType,
			ItemID:   item.id,
			Amount:   0,
			Currency: item.currency,
		}); err != nil {
			return nil, err
		}
		s.log.Info("free item claimed", "user_id", in.UserID, "item_type", in.ItemType, "item_id", item.id)
		return &CheckoutResult{Status: types.OrderPaid, Free: true}, nil
	}

	if s.gateway == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "payments_unavailable", errors.New("payment gateway not configured"))
	}

	order, err := s.orders.Create(dbctx.New(ctx), &types.CheckoutOrder{
		ID:       s.newID(),
		UserID:   in.UserID,
		ItemType: in.ItemType,
		ItemID:   item.id,
		Amount:   item.price,
		Currency: item.currency,
		Status:   types.OrderPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	tx, err := s.gateway.CreateTransaction(ctx, order.ID, order.Amount,
		midtrans.LineItem{ID: item.id.String(), Name: item.title, Price: item.price},
		midtrans.Customer{Name: in.Name, Email: in.Email},
	)
	if err != nil {
		s.log.Error("payment transaction failed", "order_id", order.ID, "error", err)
		if _, terr := s.orders.Transition(dbctx.New(ctx), order.ID, types.OrderFailed); terr != nil {
			s.log.Warn("mark order failed", "order_id", order.ID, "error", terr)
		}
		return nil, apierr.New(http.StatusBadGateway, "payment_provider_error", err)
	}
	if err := s.orders.AttachPayment(dbctx.New(ctx), order.ID, tx.Token, tx.RedirectURL); err != nil {
		return nil, fmt.Errorf("attach payment: %w", err)
	}

	s.log.Info("checkout created", "order_id", order.ID, "user_id", in.UserID, "item_type", in.ItemType, "amount", order.Amount)
	return &CheckoutResult{
		OrderID:     order.ID,
		Status:      types.OrderPending,
		Token:       tx.Token,
		RedirectURL: tx.RedirectURL,
	}, nil
}

func (s *checkoutService) HandleNotification(ctx context.Context, n Notification) (res *NotificationResult, err error) {
	ctx, span := checkoutTracer.Start(ctx, "checkout.HandleNotification")
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("order_id", n.OrderID),
		attribute.String("transaction_status", n.TransactionStatus),
	)

	if s.gateway == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "payments_unavailable", errors.New("payment gateway not configured"))
	}
	if !s.gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		return nil, apierr.Unauthorized("invalid_signature", "")
	}

	order, err := s.orders.GetByID(dbctx.New(ctx), n.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, apierr.NotFound("order_not_found", "")
	}
	if amt, ok := parseGross(n.GrossAmount); !ok || amt != order.Amount {
		s.log.Warn("notification amount mismatch", "order_id", order.ID, "gross_amount", n.GrossAmount, "expected", order.Amount)
		return nil, apierr.Malformed("amount_mismatch", "gross_amount %q does not match order", n.GrossAmount)
	}

	next, settles := mapTransactionStatus(n.TransactionStatus, n.FraudStatus)
	if !settles {
		return &NotificationResult{OrderID: order.ID, Status: order.Status}, nil
	}

	var applied bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		moved, err := s.orders.Transition(inner, order.ID, next)
		if err != nil {
			return err
		}
		applied = moved
		// A repeated "paid" still re-asserts the entitlement; CreateIfAbsent absorbs it.
		if next == types.OrderPaid && (moved || order.Status == types.OrderPaid) {
			_, _, err := s.access.RecordPurchase(inner, Purchase{
				UserID:   order.UserID,
				ItemType: order.ItemType,
				ItemID:   order.ItemID,
				Amount:   order.Amount,
				Currency: order.Currency,
				OrderID:  order.ID,
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("settle order: %w", err)
	}

	status := order.Status
	if applied {
		status = next
		s.log.Info("order settled", "order_id", order.ID, "status", next, "transaction_id", n.TransactionID)
	}
	return &NotificationResult{OrderID: order.ID, Status: status, Applied: applied}, nil
}

// mapTransactionStatus reports the terminal order status for a provider status,
// and false when the order should stay pending.
func mapTransactionStatus(status, fraud string) (types.OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "capture":
		switch strings.ToLower(strings.TrimSpace(fraud)) {
		case "", "accept":
			return types.OrderPaid, true
		case "deny":
			return types.OrderFailed, true
		default:
			return types.OrderPending, false
		}
	case "settlement":
		return types.OrderPaid, true
	case "expire":
		return types.OrderExpired, true
	case "cancel":
		return types.OrderCancelled, true
	case "deny", "failure":
		return types.OrderFailed, true
	default:
		return types.OrderPending, false
	}
}

// parseGross reads the provider's decimal string, e.g. "150000.00".
func parseGross(s string) (int64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(math.Round(f)), true
}

func (s *checkoutService) loadSellable(ctx context.Context, itemType types.ItemType, itemID uuid.UUID) (*sellable, error) {
	switch itemType {
	case types.ItemCourse:
		c, err := s.courses.GetByID(dbctx.New(ctx), itemID)
		if err != nil {
			return nil, fmt.Errorf("load course: %w", err)
		}
		if c == nil || !c.IsPublished {
			return nil, apierr.NotFound("course_not_found", "")
		}
		return &sellable{id: c.ID, title: c.Title, price: c.PriceAmount, currency: c.Currency}, nil
	case types.ItemProduct:
		p, err := s.products.GetByID(dbctx.New(ctx), itemID)
		if err != nil {
			return nil, fmt.Errorf("load product: %w", err)
		}
		if p == nil || !p.IsPublished {
			return nil, apierr.NotFound("product_not_found", "")
		}
		return &sellable{id: p.ID, title: p.Title, price: p.PriceAmount, currency: p.Currency}, nil
	default:
		return nil, apierr.Validation("invalid_item_type", "unknown item type %q", itemType)
	}
}
