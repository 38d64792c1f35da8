package payment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"paydirect/internal/worldline"
)

// ContractError signals a well-formed upstream response that is missing a
// field this integration cannot work without. Not retryable: it means the
// API contract changed, not that the call flaked.
type ContractError struct {
	Field string
}

func (e *ContractError) Error() string {
	return "worldline response is missing required field " + e.Field
}

// CheckoutClient is the slice of the Worldline client the gateway needs.
type CheckoutClient interface {
	CreateHostedCheckout(ctx context.Context, req *worldline.CreateHostedCheckoutRequest) (*worldline.HostedCheckoutSession, error)
	HostedCheckoutStatus(ctx context.Context, hostedCheckoutID string) (*worldline.HostedCheckoutStatusReport, error)
}

// Gateway drives a payment through the Worldline hosted checkout flow:
// Start opens a checkout and points the payment at the hosted page,
// UpdateStatus polls Worldline and maps the answer onto the host status
// model. Neither operation retries; the polling scheduler owns cadence.
type Gateway struct {
	config   *worldline.Config
	client   CheckoutClient
	webhooks *WebhookURLBuilder
	logger   *zap.Logger
}

func NewGateway(config *worldline.Config, client CheckoutClient, webhooks *WebhookURLBuilder, logger *zap.Logger) *Gateway {
	return &Gateway{
		config:   config,
		client:   client,
		webhooks: webhooks,
		logger:   logger,
	}
}

// Start opens a hosted checkout for the payment, persists the checkout
// identifiers and sets the payment's action URL to the hosted page. The
// record is not touched when the response lacks a redirect URL.
func (g *Gateway) Start(ctx context.Context, rec Record) error {
	req := g.buildCheckoutRequest(rec)

	session, err := g.client.CreateHostedCheckout(ctx, req)
	if err != nil {
		return fmt.Errorf("create hosted checkout for payment %s: %w", rec.ID(), err)
	}

	if session.RedirectURL == "" {
		return &ContractError{Field: "redirectUrl"}
	}

	rec.SetMeta(MetaHostedCheckoutID, session.HostedCheckoutID)
	rec.SetMeta(MetaReturnMAC, session.ReturnMAC)
	rec.SetActionURL(session.RedirectURL)

	if err := rec.Save(); err != nil {
		return fmt.Errorf("save payment %s after checkout start: %w", rec.ID(), err)
	}

	g.logger.Info("hosted checkout started",
		zap.String("payment_id", rec.ID()),
		zap.String("hosted_checkout_id", session.HostedCheckoutID))

	return nil
}

// UpdateStatus polls Worldline for the payment's checkout and maps the
// reported status onto the host status model. A payment without a stored
// hosted checkout ID is left untouched: it was never started against this
// gateway or has already been reconciled.
func (g *Gateway) UpdateStatus(ctx context.Context, rec Record) error {
	hostedCheckoutID := rec.Meta(MetaHostedCheckoutID)
	if hostedCheckoutID == "" {
		return nil
	}

	report, err := g.client.HostedCheckoutStatus(ctx, hostedCheckoutID)
	if err != nil {
		return fmt.Errorf("get hosted checkout status for payment %s: %w", rec.ID(), err)
	}

	switch report.Status {
	case worldline.CheckoutStatusCancelledByConsumer:
		rec.SetStatus(StatusCancelled)
	case worldline.CheckoutStatusInProgress:
		rec.SetStatus(StatusOpen)
	case worldline.CheckoutStatusPaymentCreated:
		if out := report.CreatedPaymentOutput; out != nil && out.PaymentStatusCategory != nil {
			switch *out.PaymentStatusCategory {
			case worldline.PaymentStatusCategorySuccessful:
				rec.SetStatus(StatusSuccess)
			case worldline.PaymentStatusCategoryRejected:
				rec.SetStatus(StatusExpired)
			case worldline.PaymentStatusCategoryStatusUnknown:
				rec.SetStatus(StatusOpen)
			}
		}
	}

	// The transaction identifier is taken whenever Worldline reports one,
	// independent of which status branch fired.
	if out := report.CreatedPaymentOutput; out != nil && out.Payment != nil && out.Payment.ID != "" {
		rec.SetTransactionID(out.Payment.ID)
	}

	if err := rec.Save(); err != nil {
		return fmt.Errorf("save payment %s after status update: %w", rec.ID(), err)
	}

	g.logger.Debug("hosted checkout status updated",
		zap.String("payment_id", rec.ID()),
		zap.String("checkout_status", string(report.Status)))

	return nil
}

// buildCheckoutRequest assembles the create payload from the payment
// record.
func (g *Gateway) buildCheckoutRequest(rec Record) *worldline.CreateHostedCheckoutRequest {
	amount := rec.TotalAmount()

	req := &worldline.CreateHostedCheckoutRequest{
		HostedCheckoutSpecificInput: worldline.HostedCheckoutSpecificInput{
			ReturnURL: rec.ReturnURL(),
			Variant:   g.config.Variant,
		},
		Order: worldline.Order{
			References: worldline.OrderReferences{
				MerchantReference: g.renderTemplate(g.config.MerchantReferenceTemplate, rec.ID(), rec.ID()),
				Descriptor:        g.renderTemplate(g.config.DescriptorTemplate, rec.ID(), "Order "+rec.ID()),
			},
			AmountOfMoney: worldline.AmountOfMoney{
				Amount:       amount.MinorUnits,
				CurrencyCode: amount.CurrencyCode,
			},
			Customer: buildCustomer(rec.Customer(), rec.BillingAddress()),
		},
		Feedbacks: &worldline.Feedbacks{
			WebhooksURLs: []string{g.webhooks.PaymentWebhookURL(rec.ID())},
		},
	}

	return req
}

// renderTemplate substitutes {payment_id} in a configured template and
// falls back to a default when the template is empty.
func (g *Gateway) renderTemplate(template, paymentID, fallback string) string {
	if template == "" {
		return fallback
	}
	return strings.ReplaceAll(template, "{payment_id}", paymentID)
}

// buildCustomer maps payer data onto the Worldline customer block. Every
// sub-object is included only when it carries at least one value; with no
// payer data at all the customer key is omitted entirely.
func buildCustomer(c *Customer, addr *BillingAddress) *worldline.Customer {
	customer := &worldline.Customer{}
	empty := true

	if c != nil {
		if c.FirstName != "" || c.LastName != "" {
			customer.PersonalInformation = &worldline.PersonalInformation{
				Name: &worldline.PersonalName{
					FirstName: c.FirstName,
					Surname:   c.LastName,
				},
			}
			empty = false
		}
		if c.Email != "" || c.Phone != "" {
			customer.ContactDetails = &worldline.ContactDetails{
				EmailAddress: c.Email,
				PhoneNumber:  c.Phone,
			}
			empty = false
		}
		if c.Locale != "" {
			customer.Locale = c.Locale
			empty = false
		}
		if c.IPAddress != "" {
			customer.Device = &worldline.Device{IPAddress: c.IPAddress}
			empty = false
		}
	}

	if addr != nil {
		if addr.Street != "" || addr.HouseNumber != "" || addr.City != "" || addr.PostalCode != "" || addr.CountryCode != "" {
			customer.BillingAddress = &worldline.Address{
				Street:      addr.Street,
				HouseNumber: addr.HouseNumber,
				City:        addr.City,
				Zip:         addr.PostalCode,
				CountryCode: addr.CountryCode,
			}
			empty = false
		}
	}

	if empty {
		return nil
	}
	return customer
}
