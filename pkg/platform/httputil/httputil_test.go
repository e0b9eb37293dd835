package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "contesthub/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		code        string
		description string
	}{
		{"validation keeps its message", dErrors.New(dErrors.CodeValidation, "entry fee must be positive"), http.StatusBadRequest, "validation_error", "entry fee must be positive"},
		{"forbidden", dErrors.New(dErrors.CodeForbidden, "admin role required"), http.StatusForbidden, "forbidden", "admin role required"},
		{"rate limited", dErrors.New(dErrors.CodeRateLimited, "slow down"), http.StatusTooManyRequests, "rate_limited", "slow down"},
		{"gateway lookup hides detail", dErrors.New(dErrors.CodeGatewayLookup, "no such checkout session"), http.StatusBadGateway, "gateway_lookup_failed", ""},
		{"store failure hides detail", dErrors.New(dErrors.CodeStoreFailure, "increment participants"), http.StatusInternalServerError, "store_failure", ""},
		{"plain errors become internal", http.ErrHandlerTimeout, http.StatusInternalServerError, "internal_error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error)
			assert.Equal(t, tt.description, body.ErrorDescription)
		})
	}
}

func TestLogAndWriteErrorLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	LogAndWriteError(context.Background(), logger, httptest.NewRecorder(),
		dErrors.New(dErrors.CodeNotFound, "contest not found"), "get contest", "req-1")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	buf.Reset()
	LogAndWriteError(context.Background(), logger, httptest.NewRecorder(),
		dErrors.New(dErrors.CodeStoreFailure, "write failed"), "confirm", "req-2")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestWriteJSONWithoutBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ Name string }

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.True(t, dErrors.HasCode(DecodeJSON(req, &v), dErrors.CodeBadRequest))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"spring"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "spring", v.Name)
}
