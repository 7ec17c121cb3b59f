// Package http is a small fluent HTTP client with retries:
//
//	resp, err := http.Post(url).
//		BasicAuth(key, secret).
//		JSON(payload).
//		Timeout(10 * time.Second).
//		Retry(2).
//		Send()
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"time"
)

// DefaultClient is used by every request. Tests swap its Transport to stub
// upstream services.
var DefaultClient = &nethttp.Client{Timeout: 30 * time.Second}

// Request is a pending HTTP request being built fluently.
type Request struct {
	method   string
	url      string
	headers  map[string]string
	body     []byte
	timeout  time.Duration
	retries  int
	ctx      context.Context
	username string
	password string
	hasAuth  bool
	err      error // deferred build error, surfaced on Send
}

func newRequest(method, url string) *Request {
	return &Request{
		method:  method,
		url:     url,
		headers: map[string]string{},
		ctx:     context.Background(),
	}
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(nethttp.MethodGet, url) }

// Post starts a POST request.
func Post(url string) *Request { return newRequest(nethttp.MethodPost, url) }

// Put starts a PUT request.
func Put(url string) *Request { return newRequest(nethttp.MethodPut, url) }

// Delete starts a DELETE request.
func Delete(url string) *Request { return newRequest(nethttp.MethodDelete, url) }

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Body sets a raw request body.
func (r *Request) Body(b []byte) *Request {
	r.body = b
	return r
}

// JSON marshals v as the request body and sets the content type.
func (r *Request) JSON(v interface{}) *Request {
	data, err := json.Marshal(v)
	if err != nil {
		r.err = fmt.Errorf("http: marshal body: %w", err)
		return r
	}
	r.body = data
	r.headers["Content-Type"] = "application/json"
	return r
}

// BasicAuth sets HTTP basic authentication credentials.
func (r *Request) BasicAuth(username, password string) *Request {
	r.username, r.password, r.hasAuth = username, password, true
	return r
}

func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry retries the request up to n additional times on transport errors or
// 5xx responses.
func (r *Request) Retry(n int) *Request {
	r.retries = n
	return r
}

func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Response wraps the outcome of a request with the body already read.
type Response struct {
	StatusCode int
	Raw        []byte
	Headers    nethttp.Header
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	return json.Unmarshal(r.Raw, dest)
}

// Throw returns an error when the response is not 2xx.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("http: unexpected status %d: %s", r.StatusCode, truncate(r.Raw, 200))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// Send executes the request.
func (r *Request) Send() (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}

	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 250 * time.Millisecond)
		}

		req, err := nethttp.NewRequestWithContext(ctx, r.method, r.url, bytes.NewReader(r.body))
		if err != nil {
			return nil, fmt.Errorf("http: build request: %w", err)
		}
		for k, v := range r.headers {
			req.Header.Set(k, v)
		}
		if r.hasAuth {
			req.SetBasicAuth(r.username, r.password)
		}

		resp, err := DefaultClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 && attempt < r.retries {
			lastErr = fmt.Errorf("http: status %d", resp.StatusCode)
			continue
		}

		return &Response{StatusCode: resp.StatusCode, Raw: raw, Headers: resp.Header}, nil
	}

	return nil, fmt.Errorf("http: %s %s: %w", r.method, r.url, lastErr)
}
