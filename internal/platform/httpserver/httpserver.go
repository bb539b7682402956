// Package httpserver constructs the API's http.Server.
package httpserver

import (
	"net/http"
	"time"
)

// New returns the server for the statistics API. Per-request work is bounded
// by the timeout middleware, so only the header read is capped here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
