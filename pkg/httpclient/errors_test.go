package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		contains string
	}{
		{"not found", http.StatusNotFound, `{"error":"no such route"}`, apperrors.ErrNotFound, "no such route"},
		{"bad request", http.StatusBadRequest, `{"error":"text is required"}`, apperrors.ErrInvalidInput, "sentiment: text is required"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"error":"too long"}`, apperrors.ErrInvalidInput, "too long"},
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, apperrors.ErrTooManyRequests, "slow down"},
		{"unavailable", http.StatusServiceUnavailable, `{"error":"warming up"}`, apperrors.ErrServiceUnavail, "warming up"},
		{"server error", http.StatusBadGateway, `upstream gone`, nil, "server error (502): upstream gone"},
		{"unstructured 4xx", http.StatusTeapot, `<html>teapot</html>`, nil, "status 418: <html>teapot</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseResponseError(fakeResponse(tt.status, tt.body), "sentiment")
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel), "expected %v in %v", tt.sentinel, err)
			}
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseResponseError_EmptyBody(t *testing.T) {
	err := ParseResponseError(fakeResponse(http.StatusInternalServerError, ""), "sentiment")
	assert.Contains(t, err.Error(), "500")
}
