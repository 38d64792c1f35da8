package worldline

import "fmt"

// RequestError wraps a transport-level failure (DNS, TLS, timeout). The
// request may never have reached Worldline.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("worldline %s request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ResponseError indicates Worldline answered with a non-200 status. The
// body is kept for diagnostics.
type ResponseError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("worldline %s returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// ParseError indicates the response body was not a JSON object, could not
// be decoded, or carried an enum value outside the documented set.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("worldline response parse error: %s: %v", e.Msg, e.Err)
	}
	return "worldline response parse error: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }
