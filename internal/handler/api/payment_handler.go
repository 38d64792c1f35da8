package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paydirect/internal/models"
	"paydirect/internal/payment"
	"paydirect/internal/repository"
)

// CheckoutGateway is the payment lifecycle the handler drives.
type CheckoutGateway interface {
	Start(ctx context.Context, rec payment.Record) error
	UpdateStatus(ctx context.Context, rec payment.Record) error
}

// CreatePaymentRequest is the body of POST /api/payments.
type CreatePaymentRequest struct {
	AmountMinor  int64  `json:"amount_minor"`
	CurrencyCode string `json:"currency_code"`
	ReturnURL    string `json:"return_url"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Locale    string `json:"locale"`

	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

// PaymentHandler exposes payment creation and inspection.
type PaymentHandler struct {
	payments *repository.PaymentRepository
	gateway  CheckoutGateway
	logger   *zap.Logger
}

func NewPaymentHandler(payments *repository.PaymentRepository, gateway CheckoutGateway, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		gateway:  gateway,
		logger:   logger,
	}
}

// Create handles POST /api/payments: stores a new payment and opens a
// hosted checkout for it. The response carries the hosted page URL the
// consumer must be redirected to.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "Invalid request body")
	}

	if req.AmountMinor <= 0 {
		return errorResponse(c, "amount_minor must be positive")
	}
	req.CurrencyCode = strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if len(req.CurrencyCode) != 3 {
		return errorResponse(c, "currency_code must be an ISO 4217 alphabetic code")
	}
	if req.ReturnURL == "" {
		return errorResponse(c, "return_url is required")
	}

	model := &models.Payment{
		PublicID:     uuid.New().String(),
		AmountMinor:  req.AmountMinor,
		CurrencyCode: req.CurrencyCode,
		Status:       string(payment.StatusOpen),
		ReturnURL:    req.ReturnURL,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Locale:       req.Locale,
		IPAddress:    c.RealIP(),
		Street:       req.Street,
		HouseNumber:  req.HouseNumber,
		City:         req.City,
		PostalCode:   req.PostalCode,
		CountryCode:  req.CountryCode,
	}

	if err := h.payments.Create(model); err != nil {
		h.logger.Error("failed to create payment", zap.Error(err))
		return errorResponse(c, "Failed to create payment")
	}

	rec := repository.NewPaymentRecord(model, h.payments)
	if err := h.gateway.Start(c.Request().Context(), rec); err != nil {
		h.logger.Error("failed to start hosted checkout",
			zap.String("payment_id", model.PublicID),
			zap.Error(err))
		return errorResponse(c, "Failed to start checkout: "+err.Error())
	}

	return successResponse(c, "Successful", map[string]interface{}{
		"id":         model.PublicID,
		"status":     model.Status,
		"action_url": model.ActionURL,
	})
}

// Get handles GET /api/payments/:id.
func (h *PaymentHandler) Get(c echo.Context) error {
	p, err := h.payments.FindByPublicID(c.Param("id"))
	if err != nil {
		return errorResponse(c, "Payment not found")
	}
	return successResponse(c, "Successful", p)
}

// List handles GET /api/payments.
func (h *PaymentHandler) List(c echo.Context) error {
	limit := intQuery(c, "limit", 50)
	page := intQuery(c, "page", 1)
	if limit > 1000 {
		limit = 1000
	}

	payments, total, err := h.payments.FindAll(limit, page)
	if err != nil {
		h.logger.Error("failed to list payments", zap.Error(err))
		return errorResponse(c, "Failed to retrieve payments")
	}

	return successResponse(c, "Successful", map[string]interface{}{
		"payments": payments,
		"pagination": map[string]interface{}{
			"total_record": total,
			"total_pages":  totalPages(total, limit),
			"current_page": page,
			"per_page":     limit,
		},
	})
}

// Refresh handles POST /api/payments/:id/refresh: forces a status poll
// outside the scheduler cadence.
func (h *PaymentHandler) Refresh(c echo.Context) error {
	rec, err := h.payments.FindRecord(c.Param("id"))
	if err != nil {
		return errorResponse(c, "Payment not found")
	}

	if err := h.gateway.UpdateStatus(c.Request().Context(), rec); err != nil {
		h.logger.Error("manual status refresh failed",
			zap.String("payment_id", c.Param("id")),
			zap.Error(err))
		return errorResponse(c, "Status refresh failed: "+err.Error())
	}

	p, err := h.payments.FindByPublicID(c.Param("id"))
	if err != nil {
		return errorResponse(c, "Payment not found")
	}
	return successResponse(c, "Successful", p)
}

func intQuery(c echo.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
