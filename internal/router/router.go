package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"paydirect/internal/handler"
	"paydirect/internal/handler/api"
	"paydirect/internal/middleware"
	"paydirect/internal/payment"
	"paydirect/internal/repository"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	payments *repository.PaymentRepository,
	gateway *payment.Gateway,
	webhooks *payment.WebhookURLBuilder,
	deduper middleware.WebhookDeduper,
	apiKey string,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	webhookHandler := handler.NewWebhookHandler(payments, gateway, logger)
	returnHandler := handler.NewReturnHandler(payments, gateway, logger)
	paymentHandler := api.NewPaymentHandler(payments, gateway, logger)

	// Worldline webhook, namespaced per configuration. Always answers 200.
	e.POST("/"+webhooks.Namespace()+"/webhook/:payment_id",
		webhookHandler.Handle,
		middleware.WebhookDedup(deduper))

	// Consumer return from the hosted checkout page.
	e.GET("/pay/return/:payment_id", returnHandler.Handle)

	// Merchant API.
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(apiKey))
	apiGroup.POST("/payments", paymentHandler.Create)
	apiGroup.GET("/payments", paymentHandler.List)
	apiGroup.GET("/payments/:id", paymentHandler.Get)
	apiGroup.POST("/payments/:id/refresh", paymentHandler.Refresh)
}
