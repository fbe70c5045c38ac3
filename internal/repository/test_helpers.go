package repository

import (
	"io"
	"net/http"
	"strings"
)

// RoundTripperFunc allows us to easily mock http.Client responses in tests.
type RoundTripperFunc func(*http.Request) *http.Response

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// FailingTransport fails every request with Err, as a dropped connection would.
type FailingTransport struct {
	Err error
}

func (f FailingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.Err
}

// JSONResponse builds a canned upstream response with the given status and body.
func JSONResponse(status int, body string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     header,
	}
}
