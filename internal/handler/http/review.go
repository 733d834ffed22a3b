package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	"github.com/utafrali/ReviewAnalyzer/internal/service"
	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
	"github.com/utafrali/ReviewAnalyzer/pkg/httputil"
	"github.com/utafrali/ReviewAnalyzer/pkg/validator"
)

// MaxBodyBytes bounds the size of a review submission.
const MaxBodyBytes int64 = 1 << 20

// allowedMethods is advertised on 405 responses.
const allowedMethods = "GET, POST"

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// ListReviews handles GET on any path.
//
// Query parameters: location (exact match), start_date and end_date
// (YYYY-MM-DD, inclusive). The response is a JSON array sorted by compound
// sentiment, highest first.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query, err := domain.ParseReviewQuery(params.Get("location"), params.Get("start_date"), params.Get("end_date"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST on any path. The body is a URL-encoded form with
// ReviewBody and Location; a JSON object with the same keys is also accepted.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	input, err := decodeReviewInput(w, r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	review, err := h.service.CreateReview(r.Context(), input)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.Internal(err)
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, review)
}

// MethodNotAllowed answers every method other than GET and POST.
func (h *ReviewHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", allowedMethods)
	httputil.WriteError(w, r, apperrors.MethodNotAllowed(r.Method), h.logger)
}

// decodeReviewInput reads the submission. JSON bodies are decoded and
// validated; every other body is parsed as a URL-encoded form whatever its
// declared content type, skipping malformed pairs.
func decodeReviewInput(w http.ResponseWriter, r *http.Request) (service.CreateReviewInput, error) {
	var input service.CreateReviewInput
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		if err := validator.DecodeAndValidate(r, &input); err != nil {
			return input, bodyError(err)
		}
		return input, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return input, bodyError(err)
	}

	form, _ := url.ParseQuery(string(body))
	input.ReviewBody = form.Get("ReviewBody")
	input.Location = form.Get("Location")
	return input, nil
}

// bodyError maps a failure to read, decode or validate the request body.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.PayloadTooLarge(MaxBodyBytes)
	}

	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		return domain.ErrMissingFields(ve.Fields())
	}

	return apperrors.InvalidInput("invalid request body: " + err.Error())
}
