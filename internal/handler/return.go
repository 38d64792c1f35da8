package handler

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paydirect/internal/payment"
)

// ReturnHandler receives the consumer coming back from the Worldline
// hosted page, verifies the RETURNMAC and refreshes the payment status
// before rendering a result page.
type ReturnHandler struct {
	payments PaymentStore
	gateway  StatusUpdater
	logger   *zap.Logger
}

func NewReturnHandler(payments PaymentStore, gateway StatusUpdater, logger *zap.Logger) *ReturnHandler {
	return &ReturnHandler{
		payments: payments,
		gateway:  gateway,
		logger:   logger,
	}
}

// Handle processes GET /pay/return/:payment_id.
func (h *ReturnHandler) Handle(c echo.Context) error {
	paymentID := c.Param("payment_id")

	rec, err := h.payments.FindRecord(paymentID)
	if err != nil {
		return h.renderResult(c, "Payment not found", "We could not find this payment.", "")
	}

	// The hosted page appends the RETURNMAC issued at checkout creation;
	// a mismatch means the return did not originate from that checkout.
	storedMAC := rec.Meta(payment.MetaReturnMAC)
	if storedMAC != "" && c.QueryParam("RETURNMAC") != storedMAC {
		h.logger.Warn("return MAC mismatch", zap.String("payment_id", paymentID))
		return h.renderResult(c, "Verification failed", "This payment return could not be verified.", paymentID)
	}

	if err := h.gateway.UpdateStatus(c.Request().Context(), rec); err != nil {
		h.logger.Error("return status update failed",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return h.renderResult(c, "Status unknown", "We could not confirm your payment yet. You will be notified once it completes.", paymentID)
	}

	title, message := resultText(rec)
	return h.renderResult(c, title, message, paymentID)
}

func resultText(rec payment.Record) (string, string) {
	switch statusOf(rec) {
	case payment.StatusSuccess:
		return "Payment completed", "Thank you, your payment was received."
	case payment.StatusCancelled:
		return "Payment cancelled", "You cancelled the payment. No money was transferred."
	case payment.StatusExpired:
		return "Payment failed", "The payment was rejected or expired. Please try again."
	default:
		return "Payment pending", "Your payment is still being processed. You will be notified once it completes."
	}
}

// statusOf reads the current status back from the record via a narrow
// optional interface, so the handler does not depend on the storage model.
func statusOf(rec payment.Record) payment.Status {
	type statusReader interface {
		CurrentStatus() payment.Status
	}
	if r, ok := rec.(statusReader); ok {
		return r.CurrentStatus()
	}
	return ""
}

var resultTemplate = template.Must(template.New("payment-result").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Payment result</title>
    <style>
        body { font-family: -apple-system, Segoe UI, sans-serif; background: #f2f2f2; margin: 0; padding: 20px; display: flex; justify-content: center; align-items: center; min-height: 100vh; }
        .box { background: #fff; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); padding: 40px; text-align: center; max-width: 400px; width: 100%; }
        h1 { color: #333; margin-bottom: 20px; }
        p { color: #666; margin-bottom: 10px; }
    </style>
</head>
<body>
    <div class="box">
        <h1>{{.Title}}</h1>
        {{if .PaymentID}}<p>Payment reference: <span>{{.PaymentID}}</span></p>{{end}}
        <p>{{.Message}}</p>
    </div>
</body>
</html>`))

func (h *ReturnHandler) renderResult(c echo.Context, title, message, paymentID string) error {
	data := map[string]interface{}{
		"Title":     title,
		"Message":   message,
		"PaymentID": paymentID,
	}

	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return resultTemplate.Execute(c.Response().Writer, data)
}
