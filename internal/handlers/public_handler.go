package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"travel-agency/internal/services"
	"travel-agency/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type Catalog interface {
	Home(ctx context.Context) (models.Home, error)
	Packages(ctx context.Context) ([]models.Package, error)
	Package(ctx context.Context, id string) (models.Package, error)
	Places(ctx context.Context) ([]models.Place, error)
	Place(ctx context.Context, slug string) (models.Place, error)
	Cabs(ctx context.Context) ([]models.Cab, error)
	Services(ctx context.Context) ([]models.Service, error)
}

type BookingSubmitter interface {
	Submit(ctx context.Context, req models.BookingRequest, idempotencyKey string) (services.BookingResult, error)
}

type ContactSubmitter interface {
	Submit(ctx context.Context, req models.ContactRequest) (services.ContactResult, error)
}

// PublicHandler serves the anonymous site: catalog reads and the booking
// and contact forms.
type PublicHandler struct {
	catalog  Catalog
	bookings BookingSubmitter
	contacts ContactSubmitter
	fallback string
	logger   *slog.Logger
}

func NewPublicHandler(catalog Catalog, bookings BookingSubmitter, contacts ContactSubmitter, agencyEmail, agencyWhatsApp string, logger *slog.Logger) *PublicHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PublicHandler{
		catalog:  catalog,
		bookings: bookings,
		contacts: contacts,
		fallback: submissionFallback(agencyEmail, agencyWhatsApp),
		logger:   logger,
	}
}

func (h *PublicHandler) Home(e *core.RequestEvent) error {
	home, err := h.catalog.Home(e.Request.Context())
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to load the home page")
	}
	return e.JSON(http.StatusOK, home)
}

func (h *PublicHandler) Packages(e *core.RequestEvent) error {
	return listJSON(e, h.logger, "packages", h.catalog.Packages)
}

func (h *PublicHandler) Package(e *core.RequestEvent) error {
	pkg, err := h.catalog.Package(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to load package")
	}
	return e.JSON(http.StatusOK, pkg)
}

func (h *PublicHandler) Places(e *core.RequestEvent) error {
	return listJSON(e, h.logger, "places", h.catalog.Places)
}

func (h *PublicHandler) Place(e *core.RequestEvent) error {
	place, err := h.catalog.Place(e.Request.Context(), e.Request.PathValue("slug"))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to load place")
	}
	return e.JSON(http.StatusOK, place)
}

func (h *PublicHandler) Cabs(e *core.RequestEvent) error {
	return listJSON(e, h.logger, "cabs", h.catalog.Cabs)
}

func (h *PublicHandler) Services(e *core.RequestEvent) error {
	return listJSON(e, h.logger, "services", h.catalog.Services)
}

// SubmitBooking answers 201 for a new booking and 200 when the same
// submission was already stored.
func (h *PublicHandler) SubmitBooking(e *core.RequestEvent) error {
	var req models.BookingRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	result, err := h.bookings.Submit(e.Request.Context(), req, e.Request.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		return toAPIError(e, h.logger, err, h.fallback)
	}

	code := http.StatusCreated
	if result.Duplicate {
		code = http.StatusOK
	}
	return e.JSON(code, result)
}

func (h *PublicHandler) SubmitContact(e *core.RequestEvent) error {
	var req models.ContactRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	result, err := h.contacts.Submit(e.Request.Context(), req)
	if err != nil {
		return toAPIError(e, h.logger, err, h.fallback)
	}
	return e.JSON(http.StatusCreated, result)
}

func listJSON[T any](e *core.RequestEvent, logger *slog.Logger, key string, list func(context.Context) ([]T, error)) error {
	items, err := list(e.Request.Context())
	if err != nil {
		return toAPIError(e, logger, err, "Failed to load "+key)
	}
	return e.JSON(http.StatusOK, map[string]any{key: items})
}
