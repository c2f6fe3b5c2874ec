package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/domain/commerce"
	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type CheckoutHandler struct {
	log      *logger.Logger
	checkout services.CheckoutService
	metrics  *observability.Metrics
}

func NewCheckoutHandler(log *logger.Logger, checkout services.CheckoutService, metrics *observability.Metrics) *CheckoutHandler {
	return &CheckoutHandler{
		log:      log.With("handler", "CheckoutHandler"),
		checkout: checkout,
		metrics:  metrics,
	}
}

type checkoutRequest struct {
	ItemType string    `json:"item_type" binding:"required,oneof=course product"`
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
}

// POST /api/checkout
// body: { "item_type": "course"|"product", "item_id": "<uuid>" }
func (h *CheckoutHandler) Create(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	itemType, err := commerce.ParseItemType(req.ItemType)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_item_type", err)
		return
	}
	res, err := h.checkout.CreateCheckout(c.Request.Context(), services.CheckoutInput{
		UserID:   rd.UserID,
		Email:    rd.Email,
		Name:     rd.Name,
		ItemType: itemType,
		ItemID:   req.ItemID,
	})
	if err != nil {
		response.RespondAPIError(c, "checkout_failed", err)
		return
	}
	h.metrics.IncCheckout(string(itemType), res.Free)
	response.RespondCreated(c, res)
}

// POST /api/webhooks/midtrans
// Any 2xx stops the provider from retrying, so only handled notifications get 200.
func (h *CheckoutHandler) MidtransNotification(c *gin.Context) {
	var n services.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_notification", err)
		return
	}
	res, err := h.checkout.HandleNotification(c.Request.Context(), n)
	if err != nil {
		h.log.Warn("payment notification rejected", "order_id", n.OrderID, "transaction_status", n.TransactionStatus, "error", err)
		response.RespondAPIError(c, "notification_failed", err)
		return
	}
	h.metrics.IncPaymentNotification(string(res.Status), res.Applied)
	response.RespondOK(c, res)
}
