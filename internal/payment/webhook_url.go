package payment

import "strings"

// WebhookURLBuilder produces the public callback URL Worldline notifies
// for a given payment: <site-root>/<namespace>/webhook/<payment_id>.
// The route namespace is configuration, not a shared constant.
type WebhookURLBuilder struct {
	baseURL   string
	namespace string
}

func NewWebhookURLBuilder(baseURL, namespace string) *WebhookURLBuilder {
	return &WebhookURLBuilder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		namespace: strings.Trim(namespace, "/"),
	}
}

// PaymentWebhookURL returns the webhook URL for one payment.
func (b *WebhookURLBuilder) PaymentWebhookURL(paymentID string) string {
	return b.baseURL + "/" + b.namespace + "/webhook/" + paymentID
}

// Namespace returns the configured route namespace.
func (b *WebhookURLBuilder) Namespace() string {
	return b.namespace
}
