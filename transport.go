package esgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Transport is the verb-level contract a Document dispatches through.
//
// The builder never parses responses and never retries; both belong to the
// transport. The four methods mirror the four HTTP verbs the document API
// uses: fetch issues GET with structured query parameters, store issues POST
// or PUT with a pre-encoded query string already appended to the URL, update
// issues POST and remove issues DELETE.
//
// Implementations decide endpoint selection, authentication, compression and
// retry policy. A transport error (network failure, exhausted endpoints) is
// returned as a non-nil error; an HTTP response of any status code, including
// 4xx and 5xx, is returned as a *Response with a nil error. Callers inspect
// Response.IsError when they care.
//
// The transport subpackage provides the default net/http implementation;
// doccache provides a caching decorator. Any value satisfying this interface
// can be injected instead.
type Transport interface {
	Get(ctx context.Context, url string, params url.Values) (*Response, error)
	Post(ctx context.Context, url string, body []byte) (*Response, error)
	Put(ctx context.Context, url string, body []byte) (*Response, error)
	Delete(ctx context.Context, url string, body []byte) (*Response, error)
}

// Response is the raw result of a transport call. The body is returned
// exactly as the engine sent it; interpreting it is the caller's business.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsError reports whether the response carries a non-2xx status.
func (r *Response) IsError() bool {
	return r.StatusCode > 299
}

// String renders the status code and body, mainly for logs and tests.
func (r *Response) String() string {
	return fmt.Sprintf("[%d] %s", r.StatusCode, r.Body)
}
