package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"contesthub/internal/platform/config"
)

func TestNewDerivesDeadlinesFromRequestTimeout(t *testing.T) {
	srv := New(config.Server{Addr: ":8080", RequestTimeout: 20 * time.Second}, http.NotFoundHandler())

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadTimeout)
	assert.Equal(t, 35*time.Second, srv.WriteTimeout)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
}

func TestNewFallsBackWithoutRequestTimeout(t *testing.T) {
	srv := New(config.Server{Addr: ":0"}, http.NotFoundHandler())

	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Equal(t, 45*time.Second, srv.WriteTimeout)
}
