package worldline

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

// ContentTypeJSON is the content type signed and sent for requests that
// carry a JSON body. Requests without a body sign an empty content type.
const ContentTypeJSON = "application/json; charset=utf-8"

// dateFormat is RFC 1123 with a numeric zone, as expected by the
// Worldline v1HMAC scheme (e.g. "Tue, 01 Jan 2025 12:00:00 +0000").
// Go's time.RFC1123 would render "UTC" instead of "+0000".
const dateFormat = "Mon, 02 Jan 2006 15:04:05 -0700"

// Signer builds the v1HMAC authorization header for Worldline Direct
// requests.
//
// https://docs.direct.worldline-solutions.com/en/integration/api-developer-guide/authentication
type Signer struct {
	apiKey    string
	apiSecret string
}

func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{apiKey: apiKey, apiSecret: apiSecret}
}

// FormatDate renders t as the Date header value. The same value must be
// both signed and transmitted; Worldline rejects requests where the two
// diverge.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateFormat)
}

// StringToSign assembles the canonical string for one request. Order is
// fixed and every line is newline-terminated, including the last.
func (s *Signer) StringToSign(httpMethod, contentType, date, endpoint string) string {
	return httpMethod + "\n" + contentType + "\n" + date + "\n" + endpoint + "\n"
}

// Sign returns the base64 HMAC-SHA256 signature over the canonical string.
func (s *Signer) Sign(httpMethod, contentType, date, endpoint string) string {
	mac := hmac.New(sha256.New, []byte(s.apiSecret))
	mac.Write([]byte(s.StringToSign(httpMethod, contentType, date, endpoint)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// AuthorizationHeader returns the full Authorization header value,
// "GCS v1HMAC:<apiKey>:<signature>".
func (s *Signer) AuthorizationHeader(httpMethod, contentType, date, endpoint string) string {
	return "GCS v1HMAC:" + s.apiKey + ":" + s.Sign(httpMethod, contentType, date, endpoint)
}
