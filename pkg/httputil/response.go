package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
	"github.com/utafrali/ReviewAnalyzer/pkg/logger"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code. The body is
// encoded up front so that Content-Length is exact.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		body, _ = json.Marshal(ErrorResponse{Error: "an internal error occurred"})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if the write fails.
	_, _ = w.Write(body)
}

// WriteError writes a standardized error response based on the error type.
// AppErrors keep their status and message; anything else is reported as a 500
// and logged. It prefers the request-scoped logger from context (set by the
// RequestLogger middleware) over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			l.ErrorContext(r.Context(), "request failed",
				slog.String("error", err.Error()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}
		WriteJSON(w, appErr.Status, ErrorResponse{Error: appErr.Message, Fields: appErr.Fields})
		return
	}

	status := apperrors.HTTPStatus(err)
	message := "an internal error occurred"
	if status < http.StatusInternalServerError {
		message = err.Error()
	} else {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, ErrorResponse{Error: message})
}
