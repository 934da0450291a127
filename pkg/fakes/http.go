package fakes

import (
	"net/http"
	"sync/atomic"
)

// Response is a canned HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   string
}

func (r *Response) write(w http.ResponseWriter) {
	for k, vs := range r.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if r.Body != "" {
		_, _ = w.Write([]byte(r.Body))
	}
}

// RequestHandler is an http.Handler that runs an optional callback and
// writes a fixed response.
type RequestHandler struct {
	Response Response
	Callback func(r *http.Request)

	calls atomic.Int64
}

// NewRequestHandler creates a handler returning resp.
func NewRequestHandler(resp Response, callback func(r *http.Request)) *RequestHandler {
	return &RequestHandler{Response: resp, Callback: callback}
}

// ServeHTTP implements http.Handler.
func (h *RequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls.Add(1)
	if h.Callback != nil {
		h.Callback(r)
	}
	h.Response.write(w)
}

// Calls returns how many requests were served.
func (h *RequestHandler) Calls() int {
	return int(h.calls.Load())
}

// Middleware runs an optional callback, then either short-circuits with a
// fixed response or delegates to the next handler.
type Middleware struct {
	Response *Response
	Callback func(r *http.Request, next http.Handler)

	calls atomic.Int64
}

// NewMiddleware creates a middleware. A nil resp delegates to next.
func NewMiddleware(resp *Response, callback func(r *http.Request, next http.Handler)) *Middleware {
	return &Middleware{Response: resp, Callback: callback}
}

// Wrap returns next wrapped by the middleware.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.calls.Add(1)
		if m.Callback != nil {
			m.Callback(r, next)
		}
		if m.Response != nil {
			m.Response.write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Calls returns how many requests passed through the middleware.
func (m *Middleware) Calls() int {
	return int(m.calls.Load())
}
