package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"travel-agency/internal/auth"
	"travel-agency/internal/repository"
	"travel-agency/internal/status"
	"travel-agency/migrations"
	"travel-agency/models"
	"travel-agency/monitoring"

	"github.com/shopspring/decimal"
)

const (
	customBooking  = "Custom Booking"
	missingPackage = "Package Not Found"
	bookingSort    = "-created"
	contactSort    = "-created"
)

// Editable is a catalog entity the admin screens can write.
type Editable[T any] interface {
	models.Entity[T]
	Normalize() T
	Validate() error
}

// Admin is the CRUD surface for one catalog collection. Every mutation
// answers with the refreshed full list.
type Admin[T Editable[T]] struct {
	entity string
	store  repository.Store[T]
	sort   string
	logger *slog.Logger
}

func NewAdmin[T Editable[T]](entity string, store repository.Store[T], sort string, logger *slog.Logger) *Admin[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin[T]{entity: entity, store: store, sort: sort, logger: logger}
}

// Catalog admins list in the same order the public site shows.

func NewPackageAdmin(store repository.Store[models.Package], logger *slog.Logger) *Admin[models.Package] {
	return NewAdmin(migrations.Packages, store, packageSort, logger)
}

func NewPlaceAdmin(store repository.Store[models.Place], logger *slog.Logger) *Admin[models.Place] {
	return NewAdmin(migrations.Places, store, placeSort, logger)
}

func NewCabAdmin(store repository.Store[models.Cab], logger *slog.Logger) *Admin[models.Cab] {
	return NewAdmin(migrations.Cabs, store, cabSort, logger)
}

func NewServiceAdmin(store repository.Store[models.Service], logger *slog.Logger) *Admin[models.Service] {
	return NewAdmin(migrations.Services, store, serviceSort, logger)
}

func (a *Admin[T]) Entity() string { return a.entity }

func (a *Admin[T]) List(ctx context.Context, session auth.Session) ([]T, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}
	return a.all(ctx)
}

func (a *Admin[T]) Create(ctx context.Context, session auth.Session, value T) ([]T, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}

	value = value.WithID("").Normalize()
	if err := value.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", status.ErrValidation, err)
	}

	created, err := a.store.Create(ctx, value)
	monitoring.TrackAdminMutation(a.entity, "create", err)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Catalog record created", "entity", a.entity, "id", created.RecordID(), "by", session.Email)
	return a.all(ctx)
}

// Update replaces the record; concurrent edits resolve to the last write.
func (a *Admin[T]) Update(ctx context.Context, session auth.Session, id string, value T) ([]T, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}

	value = value.WithID(id).Normalize()
	if err := value.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", status.ErrValidation, err)
	}

	_, err := a.store.Update(ctx, value)
	monitoring.TrackAdminMutation(a.entity, "update", err)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Catalog record updated", "entity", a.entity, "id", id, "by", session.Email)
	return a.all(ctx)
}

func (a *Admin[T]) Delete(ctx context.Context, session auth.Session, id string) ([]T, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}

	err := a.store.Delete(ctx, id)
	monitoring.TrackAdminMutation(a.entity, "delete", err)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Catalog record deleted", "entity", a.entity, "id", id, "by", session.Email)
	return a.all(ctx)
}

func (a *Admin[T]) all(ctx context.Context) ([]T, error) {
	return a.store.List(ctx, repository.Query{Sort: a.sort})
}

// BookingAdmin lists bookings with their package summary and moves them
// through their status values.
type BookingAdmin struct {
	bookings repository.Store[models.Booking]
	packages repository.Store[models.Package]
	logger   *slog.Logger
}

func NewBookingAdmin(bookings repository.Store[models.Booking], packages repository.Store[models.Package], logger *slog.Logger) *BookingAdmin {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingAdmin{bookings: bookings, packages: packages, logger: logger}
}

func (a *BookingAdmin) List(ctx context.Context, session auth.Session) ([]models.BookingView, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}
	return a.views(ctx)
}

// Get returns one booking; a dangling package reference is labelled
// instead of failing.
func (a *BookingAdmin) Get(ctx context.Context, session auth.Session, id string) (models.BookingView, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return models.BookingView{}, err
	}

	booking, err := a.bookings.Get(ctx, id)
	if err != nil {
		return models.BookingView{}, err
	}

	view := models.BookingView{Booking: booking, PackageName: missingPackage, PackagePrice: decimal.Zero}
	if booking.PackageID != "" {
		if pkg, err := a.packages.Get(ctx, booking.PackageID); err == nil {
			view.PackageName = pkg.Title
			view.PackagePrice = pkg.Price
		}
	}
	view.TotalAmount = booking.TotalAmount(view.PackagePrice)
	return view, nil
}

func (a *BookingAdmin) UpdateStatus(ctx context.Context, session auth.Session, id string, next models.BookingStatus) ([]models.BookingView, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, fmt.Errorf("booking status %q: %w", next, status.ErrInvalidStatus)
	}

	booking, err := a.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	booking.Status = next
	_, err = a.bookings.Update(ctx, booking)
	monitoring.TrackAdminMutation("bookings", "update", err)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Booking status changed", "id", id, "status", next, "by", session.Email)
	return a.views(ctx)
}

func (a *BookingAdmin) Delete(ctx context.Context, session auth.Session, id string) ([]models.BookingView, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}
	err := a.bookings.Delete(ctx, id)
	monitoring.TrackAdminMutation("bookings", "delete", err)
	if err != nil {
		return nil, err
	}
	return a.views(ctx)
}

func (a *BookingAdmin) views(ctx context.Context) ([]models.BookingView, error) {
	bookings, err := a.bookings.List(ctx, repository.Query{Sort: bookingSort})
	if err != nil {
		return nil, err
	}
	packages, err := a.packages.List(ctx, repository.Query{})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Package, len(packages))
	for _, p := range packages {
		byID[p.ID] = p
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := models.BookingView{Booking: b, PackagePrice: decimal.Zero}
		if pkg, ok := byID[b.PackageID]; ok && b.PackageID != "" {
			view.PackageName = pkg.Title
			view.PackagePrice = pkg.Price
		} else if name := packageTitleFromMessage(b.Message); name != "" {
			view.PackageName = name
		} else {
			view.PackageName = customBooking
		}
		view.TotalAmount = b.TotalAmount(view.PackagePrice)
		views = append(views, view)
	}
	return views, nil
}

// ContactAdmin manages the contact inbox.
type ContactAdmin struct {
	contacts repository.Store[models.Contact]
	now      func() time.Time
	logger   *slog.Logger
}

func NewContactAdmin(contacts repository.Store[models.Contact], logger *slog.Logger) *ContactAdmin {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactAdmin{contacts: contacts, now: time.Now, logger: logger}
}

func (a *ContactAdmin) List(ctx context.Context, session auth.Session) ([]models.Contact, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}
	return a.contacts.List(ctx, repository.Query{Sort: contactSort})
}

// UpdateStatus records the reply time when a message is marked replied.
func (a *ContactAdmin) UpdateStatus(ctx context.Context, session auth.Session, id string, next models.ContactStatus) ([]models.Contact, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, fmt.Errorf("contact status %q: %w", next, status.ErrInvalidStatus)
	}

	contact, err := a.contacts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	contact.Status = next
	if next == models.ContactReplied {
		repliedAt := a.now().UTC()
		contact.RepliedAt = &repliedAt
	}

	_, err = a.contacts.Update(ctx, contact)
	monitoring.TrackAdminMutation("contacts", "update", err)
	if err != nil {
		return nil, err
	}
	return a.contacts.List(ctx, repository.Query{Sort: contactSort})
}

func (a *ContactAdmin) Delete(ctx context.Context, session auth.Session, id string) ([]models.Contact, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return nil, err
	}
	err := a.contacts.Delete(ctx, id)
	monitoring.TrackAdminMutation("contacts", "delete", err)
	if err != nil {
		return nil, err
	}
	return a.contacts.List(ctx, repository.Query{Sort: contactSort})
}
