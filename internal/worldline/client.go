package worldline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"paydirect/internal/pkg/httpclient"
)

// Client issues hosted checkout calls against the Worldline Direct API.
// Each call is a single signed, synchronous HTTP round trip; the client
// keeps no state between calls.
type Client struct {
	config  *Config
	signer  *Signer
	http    *httpclient.Client
	baseURL string
	now     func() time.Time
}

func NewClient(config *Config) *Client {
	return &Client{
		config:  config,
		signer:  NewSigner(config.APIKey, config.APISecret),
		http:    httpclient.New().WithTimeout(30 * time.Second),
		baseURL: "https://" + config.APIHost,
		now:     time.Now,
	}
}

// CreateHostedCheckout opens a new hosted checkout session.
//
// POST /v2/{merchantId}/hostedcheckouts
func (c *Client) CreateHostedCheckout(ctx context.Context, req *CreateHostedCheckoutRequest) (*HostedCheckoutSession, error) {
	endpoint := "/v2/" + c.config.MerchantID + "/hostedcheckouts"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode hosted checkout request: %w", err)
	}

	respBody, err := c.do(ctx, "create hosted checkout", http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}

	var session HostedCheckoutSession
	if err := decodeObject(respBody, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// HostedCheckoutStatus fetches the current status of a hosted checkout.
//
// GET /v2/{merchantId}/hostedcheckouts/{hostedCheckoutId}
func (c *Client) HostedCheckoutStatus(ctx context.Context, hostedCheckoutID string) (*HostedCheckoutStatusReport, error) {
	endpoint := "/v2/" + c.config.MerchantID + "/hostedcheckouts/" + url.PathEscape(hostedCheckoutID)

	respBody, err := c.do(ctx, "get hosted checkout status", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var report HostedCheckoutStatusReport
	if err := decodeObject(respBody, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// do signs and sends one request. The Date header value is computed once
// and shared between the signature and the transmitted header; a mismatch
// would make Worldline reject the call.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte) ([]byte, error) {
	contentType := ""
	if body != nil {
		contentType = ContentTypeJSON
	}
	date := FormatDate(c.now())

	headers := map[string]string{
		"Date":          date,
		"Authorization": c.signer.AuthorizationHeader(method, contentType, date, endpoint),
	}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}

	resp, err := c.http.Do(ctx, method, c.baseURL+endpoint, headers, body)
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{Op: op, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	return resp.Body, nil
}

// decodeObject decodes a response body that must be a JSON object.
func decodeObject(body []byte, v interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &ParseError{Msg: "response body is not a JSON object"}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return parseErr
		}
		return &ParseError{Msg: "cannot decode response body", Err: err}
	}
	return nil
}
