package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paydirect/internal/payment"
)

// PaymentStore loads payment records and attaches notes to them.
type PaymentStore interface {
	FindRecord(publicID string) (payment.Record, error)
	AddNoteByPublicID(publicID, note string) error
}

// StatusUpdater re-polls the gateway status for one payment record.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, rec payment.Record) error
}

// WebhookHandler handles status notifications from Worldline.
type WebhookHandler struct {
	payments PaymentStore
	gateway  StatusUpdater
	logger   *zap.Logger
}

func NewWebhookHandler(payments PaymentStore, gateway StatusUpdater, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		payments: payments,
		gateway:  gateway,
		logger:   logger,
	}
}

// Handle processes POST /<namespace>/webhook/:payment_id. The response is
// always 200 {"success":true}, even for unknown payments or failed status
// polls: anything else makes Worldline retry the delivery endlessly.
func (h *WebhookHandler) Handle(c echo.Context) error {
	ok := map[string]bool{"success": true}

	paymentID := c.Param("payment_id")
	if paymentID == "" {
		return c.JSON(http.StatusOK, ok)
	}

	rec, err := h.payments.FindRecord(paymentID)
	if err != nil {
		h.logger.Warn("webhook for unknown payment", zap.String("payment_id", paymentID))
		return c.JSON(http.StatusOK, ok)
	}

	if err := h.payments.AddNoteByPublicID(paymentID, "Webhook requested by Worldline."); err != nil {
		h.logger.Warn("failed to add webhook note", zap.String("payment_id", paymentID), zap.Error(err))
	}

	if err := h.gateway.UpdateStatus(c.Request().Context(), rec); err != nil {
		h.logger.Error("webhook status update failed",
			zap.String("payment_id", paymentID),
			zap.Error(err))
	}

	return c.JSON(http.StatusOK, ok)
}
