// Package httpserver builds the process's http.Server from config.
package httpserver

import (
	"net/http"
	"time"

	"contesthub/internal/platform/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 90 * time.Second
	// writeSlack leaves room to flush a response after the request timeout
	// middleware gives up on the handler.
	writeSlack = 15 * time.Second
)

// New returns a server for handler. The read and write deadlines follow the
// per-request timeout so a slow client cannot outlive a cancelled handler.
func New(cfg config.Server, handler http.Handler) *http.Server {
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       requestTimeout / 2,
		WriteTimeout:      requestTimeout + writeSlack,
		IdleTimeout:       idleTimeout,
	}
}
