package worldline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		APIHost:    "payment.example",
		MerchantID: "m1",
		APIKey:     "key",
		APISecret:  "secret",
	}
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(testConfig())
	c.baseURL = srv.URL
	c.now = func() time.Time {
		return time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func TestCreateHostedCheckout(t *testing.T) {
	type recorded struct {
		req  *http.Request
		body []byte
	}
	received := make(chan recorded, 1)

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- recorded{req: r, body: body}
		w.Write([]byte(`{"hostedCheckoutId":"abc123","RETURNMAC":"mac1","redirectUrl":"https://pay.example/abc123"}`))
	})

	req := &CreateHostedCheckoutRequest{
		HostedCheckoutSpecificInput: HostedCheckoutSpecificInput{ReturnURL: "https://shop.example/return"},
		Order: Order{
			References:    OrderReferences{MerchantReference: "p1", Descriptor: "Order p1"},
			AmountOfMoney: AmountOfMoney{Amount: 1099, CurrencyCode: "EUR"},
		},
		Feedbacks: &Feedbacks{WebhooksURLs: []string{"https://shop.example/worldline/v1/webhook/p1"}},
	}

	session, err := client.CreateHostedCheckout(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "abc123", session.HostedCheckoutID)
	require.Equal(t, "mac1", session.ReturnMAC)
	require.Equal(t, "https://pay.example/abc123", session.RedirectURL)

	record := <-received
	require.Equal(t, http.MethodPost, record.req.Method)
	require.Equal(t, "/v2/m1/hostedcheckouts", record.req.URL.Path)
	require.Equal(t, ContentTypeJSON, record.req.Header.Get("Content-Type"))

	date := record.req.Header.Get("Date")
	require.Equal(t, "Wed, 01 Jan 2025 12:00:00 +0000", date)

	// The Authorization header must sign the same Date value that was sent.
	signer := NewSigner("key", "secret")
	want := signer.AuthorizationHeader(http.MethodPost, ContentTypeJSON, date, "/v2/m1/hostedcheckouts")
	require.Equal(t, want, record.req.Header.Get("Authorization"))

	var sent map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(record.body, &sent))
	require.Contains(t, sent, "hostedCheckoutSpecificInput")
	require.Contains(t, sent, "order")
	require.Contains(t, sent, "feedbacks")
}

func TestHostedCheckoutStatus(t *testing.T) {
	received := make(chan *http.Request, 1)

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		received <- r
		w.Write([]byte(`{"status":"IN_PROGRESS"}`))
	})

	report, err := client.HostedCheckoutStatus(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, CheckoutStatusInProgress, report.Status)

	r := <-received
	require.Equal(t, http.MethodGet, r.Method)
	require.Equal(t, "/v2/m1/hostedcheckouts/abc123", r.URL.Path)

	// GET carries no body; the content type is signed as an empty string.
	signer := NewSigner("key", "secret")
	want := signer.AuthorizationHeader(http.MethodGet, "", r.Header.Get("Date"), "/v2/m1/hostedcheckouts/abc123")
	require.Equal(t, want, r.Header.Get("Authorization"))
}

func TestNon200IsResponseError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorId":"e1"}`))
	})

	_, err := client.HostedCheckoutStatus(context.Background(), "abc123")

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	require.Equal(t, http.StatusBadRequest, respErr.StatusCode)
	require.Contains(t, respErr.Body, "errorId")
}

func TestMalformedBodyIsParseError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.HostedCheckoutStatus(context.Background(), "abc123")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestTransportFailureIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(testConfig())
	client.baseURL = srv.URL

	_, err := client.HostedCheckoutStatus(context.Background(), "abc123")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}
