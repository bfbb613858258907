package testutil

import (
	"net/http"
	"time"

	"clientreg/pkg/requestcontext"
)

// WithRequestID attaches a request ID the way the request ID middleware does.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithTime pins the request clock.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
