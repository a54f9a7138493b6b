package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient returns the client used for all inter-service calls. Every
// outbound call additionally goes through a circuit breaker owned by the
// caller.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
	}
}
