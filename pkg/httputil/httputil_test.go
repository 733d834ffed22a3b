package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
	"github.com/utafrali/ReviewAnalyzer/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- WriteJSON ---

func TestWriteJSON_SetsContentTypeAndLength(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, []string{"a", "b"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["a","b"]`, rec.Body.String())
}

func TestWriteJSON_StatusCodes(t *testing.T) {
	codes := []int{http.StatusOK, http.StatusCreated, http.StatusBadRequest, http.StatusTeapot}
	for _, code := range codes {
		rec := httptest.NewRecorder()
		WriteJSON(rec, code, map[string]string{})
		assert.Equal(t, code, rec.Code)
	}
}

func TestWriteJSON_UnencodableValue_Returns500(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]any{"ch": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"an internal error occurred"}`, rec.Body.String())
}

// --- WriteError ---

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	WriteError(rec, req, apperrors.UnknownLocation("Invalid location"), testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid location"}`, rec.Body.String())
}

func TestWriteError_AppErrorWithFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	err := apperrors.MissingField("ReviewBody and Location are required", map[string]string{"ReviewBody": "is required"})
	WriteError(rec, req, fmt.Errorf("create review: %w", err), testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ReviewBody and Location are required", resp.Error)
	assert.Equal(t, "is required", resp.Fields["ReviewBody"])
}

func TestWriteError_SentinelInvalidArgument(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, fmt.Errorf("bad date: %w", apperrors.ErrInvalidArgument), testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "bad date")
}

func TestWriteError_UnknownError_Returns500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, fmt.Errorf("lexicon exploded"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "an internal error occurred", resp.Error)
	assert.NotContains(t, rec.Body.String(), "lexicon exploded")
}

func TestWriteError_PrefersRequestScopedLogger(t *testing.T) {
	var captured []byte
	w := writerFunc(func(p []byte) (int, error) {
		captured = append(captured, p...)
		return len(p), nil
	})
	scoped := slog.New(slog.NewJSONHandler(w, nil))

	ctx := logger.NewContext(context.Background(), scoped)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	WriteError(rec, req, fmt.Errorf("boom"), testLogger())

	assert.Contains(t, string(captured), "boom")
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
