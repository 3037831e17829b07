package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"travel-agency/internal/auth"
	"travel-agency/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type CatalogAdmin[T any] interface {
	Entity() string
	List(ctx context.Context, session auth.Session) ([]T, error)
	Create(ctx context.Context, session auth.Session, value T) ([]T, error)
	Update(ctx context.Context, session auth.Session, id string, value T) ([]T, error)
	Delete(ctx context.Context, session auth.Session, id string) ([]T, error)
}

// CatalogHandler exposes one catalog collection to the admin screens.
// Responses carry the full list under the collection name.
type CatalogHandler[T any] struct {
	admin  CatalogAdmin[T]
	logger *slog.Logger
}

func NewCatalogHandler[T any](admin CatalogAdmin[T], logger *slog.Logger) *CatalogHandler[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler[T]{admin: admin, logger: logger}
}

func (h *CatalogHandler[T]) List(e *core.RequestEvent) error {
	items, err := h.admin.List(e.Request.Context(), auth.FromRequest(e))
	return h.respond(e, http.StatusOK, items, err)
}

func (h *CatalogHandler[T]) Create(e *core.RequestEvent) error {
	var value T
	if err := e.BindBody(&value); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	items, err := h.admin.Create(e.Request.Context(), auth.FromRequest(e), value)
	return h.respond(e, http.StatusCreated, items, err)
}

func (h *CatalogHandler[T]) Update(e *core.RequestEvent) error {
	var value T
	if err := e.BindBody(&value); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	items, err := h.admin.Update(e.Request.Context(), auth.FromRequest(e), e.Request.PathValue("id"), value)
	return h.respond(e, http.StatusOK, items, err)
}

func (h *CatalogHandler[T]) Delete(e *core.RequestEvent) error {
	items, err := h.admin.Delete(e.Request.Context(), auth.FromRequest(e), e.Request.PathValue("id"))
	return h.respond(e, http.StatusOK, items, err)
}

func (h *CatalogHandler[T]) respond(e *core.RequestEvent, code int, items []T, err error) error {
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to save "+h.admin.Entity())
	}
	return e.JSON(code, map[string]any{h.admin.Entity(): items})
}

type BookingManager interface {
	List(ctx context.Context, session auth.Session) ([]models.BookingView, error)
	Get(ctx context.Context, session auth.Session, id string) (models.BookingView, error)
	UpdateStatus(ctx context.Context, session auth.Session, id string, next models.BookingStatus) ([]models.BookingView, error)
	Delete(ctx context.Context, session auth.Session, id string) ([]models.BookingView, error)
	Export(ctx context.Context, session auth.Session) (*bytes.Buffer, error)
}

type ContactManager interface {
	List(ctx context.Context, session auth.Session) ([]models.Contact, error)
	UpdateStatus(ctx context.Context, session auth.Session, id string, next models.ContactStatus) ([]models.Contact, error)
	Delete(ctx context.Context, session auth.Session, id string) ([]models.Contact, error)
}

type statusBody struct {
	Status string `json:"status"`
}

type InboxHandler struct {
	bookings BookingManager
	contacts ContactManager
	now      func() time.Time
	logger   *slog.Logger
}

func NewInboxHandler(bookings BookingManager, contacts ContactManager, logger *slog.Logger) *InboxHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InboxHandler{bookings: bookings, contacts: contacts, now: time.Now, logger: logger}
}

func (h *InboxHandler) ListBookings(e *core.RequestEvent) error {
	views, err := h.bookings.List(e.Request.Context(), auth.FromRequest(e))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to load bookings")
	}
	return e.JSON(http.StatusOK, map[string]any{"bookings": views})
}

func (h *InboxHandler) GetBooking(e *core.RequestEvent) error {
	view, err := h.bookings.Get(e.Request.Context(), auth.FromRequest(e), e.Request.PathValue("id"))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to load booking")
	}
	return e.JSON(http.StatusOK, view)
}

func (h *InboxHandler) UpdateBookingStatus(e *core.RequestEvent) error {
	var body statusBody
	if err := e.BindBody(&body); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	views, err := h.bookings.UpdateStatus(e.Request.Context(), auth.FromRequest(e), e.Request.PathValue("id"), models.BookingStatus(body.Status))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to update booking")
	}
	return e.JSON(http.StatusOK, map[string]any{"bookings": views})
}

func (h *InboxHandler) DeleteBooking(e *core.RequestEvent) error {
	views, err := h.bookings.Delete(e.Request.Context(), auth.FromRequest(e), e.Request.PathValue("id"))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to delete booking")
	}
	return e.JSON(http.StatusOK, map[string]any{"bookings": views})
}

func (h *InboxHandler) ExportBookings(e *core.RequestEvent) error {
	buf, err := h.bookings.Export(e.Request.Context(), auth.FromRequest(e))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to export bookings")
	}
	filename := fmt.Sprintf("bookings-%s.xlsx", h.now().Format("20060102"))
	e.Response.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return e.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *InboxHandler) ListContacts(e *core.RequestEvent) error {
	contacts, err := h.contacts.List(e.Request.Context(), auth.FromRequest(e))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to load contacts")
	}
	return e.JSON(http.StatusOK, map[string]any{"contacts": contacts})
}

func (h *InboxHandler) UpdateContactStatus(e *core.RequestEvent) error {
	var body statusBody
	if err := e.BindBody(&body); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	contacts, err := h.contacts.UpdateStatus(e.Request.Context(), auth.FromRequest(e), e.Request.PathValue("id"), models.ContactStatus(body.Status))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to update contact")
	}
	return e.JSON(http.StatusOK, map[string]any{"contacts": contacts})
}

func (h *InboxHandler) DeleteContact(e *core.RequestEvent) error {
	contacts, err := h.contacts.Delete(e.Request.Context(), auth.FromRequest(e), e.Request.PathValue("id"))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to delete contact")
	}
	return e.JSON(http.StatusOK, map[string]any{"contacts": contacts})
}

// RequireAdmin rejects sessions without the admin role before any handler
// in the group runs.
func RequireAdmin(e *core.RequestEvent) error {
	if err := auth.RequireAdmin(auth.FromRequest(e)); err != nil {
		return apis.NewUnauthorizedError("unauthorized", nil)
	}
	return e.Next()
}
