package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/shared/telemetry"
	"legal-backend/internal/upstream"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError maps the dependency error taxonomy to an HTTP status and sends
// the standardized envelope. Unknown errors become 500s.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upstream.ErrInvalidInput):
		Error(c, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	case errors.Is(err, upstream.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, upstream.ErrAuth):
		Error(c, http.StatusBadGateway, "upstream_auth", "upstream credential rejected", nil)
	case errors.Is(err, upstream.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "rate_limited", "upstream throttled the request", nil)
	case errors.Is(err, upstream.ErrOCRUnavailable):
		Error(c, http.StatusUnprocessableEntity, "ocr_unavailable", err.Error(), nil)
	case errors.Is(err, upstream.ErrExtractionFailed):
		Error(c, http.StatusUnprocessableEntity, "extraction_failed", err.Error(), nil)
	case errors.Is(err, upstream.ErrAnalysisFailed):
		Error(c, http.StatusBadGateway, "analysis_failed", "AI analysis failed", nil)
	case errors.Is(err, upstream.ErrUnavailable):
		Error(c, http.StatusBadGateway, "upstream_unavailable", "dependency unavailable", nil)
	default:
		Error(c, http.StatusInternalServerError, "internal_error", "unexpected server error", nil)
	}
}
