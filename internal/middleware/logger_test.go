// AngelaMos | 2026
// logger_test.go

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerRecordsStatusAndBytes(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantCode  int
		wantBytes int
		wantLevel string
	}{
		{
			name: "created with body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte("hello")) //nolint:errcheck // test handler
			},
			wantCode:  http.StatusCreated,
			wantBytes: 5,
			wantLevel: "INFO",
		},
		{
			name:      "nothing written defaults to 200",
			handler:   func(http.ResponseWriter, *http.Request) {},
			wantCode:  http.StatusOK,
			wantLevel: "INFO",
		},
		{
			name: "client error logs at warn",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "missing", http.StatusNotFound)
			},
			wantCode:  http.StatusNotFound,
			wantBytes: len("missing\n"),
			wantLevel: "WARN",
		},
		{
			name: "server error logs at error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantCode:  http.StatusServiceUnavailable,
			wantLevel: "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			h := RequestID(Logger(logger)(tt.handler))
			req := httptest.NewRequest(http.MethodPost, "/api/cart/add", nil)
			req.Header.Set(requestIDHeader, "req-123")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			var line struct {
				Level     string `json:"level"`
				Method    string `json:"method"`
				Path      string `json:"path"`
				Status    int    `json:"status"`
				Bytes     int    `json:"bytes"`
				RequestID string `json:"request_id"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode, line.Status)
			assert.Equal(t, tt.wantBytes, line.Bytes)
			assert.Equal(t, tt.wantLevel, line.Level)
			assert.Equal(t, "/api/cart/add", line.Path)
			assert.Equal(t, "req-123", line.RequestID)
		})
	}
}
