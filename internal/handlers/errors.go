package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"travel-agency/internal/status"
	"travel-agency/security"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
)

// toAPIError maps service errors to HTTP errors. Unknown errors are logged
// and answered with a generic message.
func toAPIError(e *core.RequestEvent, logger *slog.Logger, err error, fallback string) error {
	var apiErr *router.ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return apis.NewBadRequestError("Please check the highlighted fields.", verrs)
	case errors.Is(err, status.ErrPackageNotFound):
		return apis.NewBadRequestError("Package not found", nil)
	case errors.Is(err, status.ErrValidation),
		errors.Is(err, status.ErrInvalidStatus),
		errors.Is(err, status.ErrUnsupportedBucket):
		return apis.NewBadRequestError(err.Error(), nil)
	case errors.Is(err, status.ErrUnauthorized):
		return apis.NewUnauthorizedError("unauthorized", nil)
	case errors.Is(err, status.ErrNotFound):
		return apis.NewNotFoundError("", nil)
	case errors.Is(err, status.ErrSubmissionInFlight):
		return apis.NewApiError(http.StatusConflict, "This request is still being processed.", nil)
	}

	logger.Error("Request failed",
		"path", e.Request.URL.Path,
		"request_id", security.GetRequestID(e),
		"error", err,
	)
	return apis.NewInternalServerError(fallback, nil)
}

func submissionFallback(email, whatsapp string) string {
	return fmt.Sprintf("We could not save your request right now. Please email %s or message us on WhatsApp at +%s.", email, whatsapp)
}
