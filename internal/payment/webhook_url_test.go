package payment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentWebhookURL(t *testing.T) {
	b := NewWebhookURLBuilder("https://shop.example", "worldline/v1")
	require.Equal(t, "https://shop.example/worldline/v1/webhook/p1", b.PaymentWebhookURL("p1"))
}

func TestPaymentWebhookURLNormalizesSlashes(t *testing.T) {
	b := NewWebhookURLBuilder("https://shop.example/", "/worldline/v1/")
	require.Equal(t, "https://shop.example/worldline/v1/webhook/p1", b.PaymentWebhookURL("p1"))
	require.Equal(t, "worldline/v1", b.Namespace())
}
