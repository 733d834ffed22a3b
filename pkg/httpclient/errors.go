package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

// downstreamError matches the {"error": "..."} body written by httputil.
type downstreamError struct {
	Error string `json:"error"`
}

// ParseResponseError reads the body of a non-2xx response and translates it
// into an error. The body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := strings.TrimSpace(string(raw))
	var body downstreamError
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		message = body.Error
	}

	return mapDownstreamError(resp.StatusCode, message, serviceName)
}

func mapDownstreamError(status int, message, serviceName string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusTooManyRequests:
		return apperrors.ServiceUnavailable(qualified, apperrors.ErrTooManyRequests)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualified, nil)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, status, message)
	default:
		return fmt.Errorf("%s returned status %d: %s", serviceName, status, message)
	}
}
