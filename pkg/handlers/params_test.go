package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name      string
		pathValue string
		wantOK    bool
		wantID    int64
	}{
		{"valid", "42", true, 42},
		{"zero", "0", false, 0},
		{"negative", "-3", false, 0},
		{"not a number", "abc", false, 0},
		{"empty", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.SetPathValue("id", tt.pathValue)
			w := httptest.NewRecorder()

			id, ok := ParseID(w, req, "id", zap.NewNop())

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), "invalid_id")
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestParseBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?dry_run=false&bad=maybe", nil)
	assert.False(t, parseBool(req, "dry_run", true))
	assert.True(t, parseBool(req, "bad", true))
	assert.True(t, parseBool(req, "missing", true))
}
