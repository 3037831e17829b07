package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel-agency/internal/auth"
	"travel-agency/internal/status"
	"travel-agency/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminSession  = auth.Session{UserID: "u1", Email: "admin@agency.test", Role: models.RoleAdmin}
	editorSession = auth.Session{UserID: "u2", Email: "editor@agency.test", Role: models.RoleEditor}
)

func TestAdmin_RequiresAdmin(t *testing.T) {
	admin := NewAdmin[models.Package]("packages", newMemStore[models.Package](), packageSort, nil)
	ctx := context.Background()

	for _, session := range []auth.Session{auth.Anonymous(), editorSession} {
		_, err := admin.List(ctx, session)
		assert.ErrorIs(t, err, status.ErrUnauthorized)
		_, err = admin.Create(ctx, session, models.Package{Title: "x"})
		assert.ErrorIs(t, err, status.ErrUnauthorized)
		_, err = admin.Update(ctx, session, "p1", models.Package{Title: "x"})
		assert.ErrorIs(t, err, status.ErrUnauthorized)
		_, err = admin.Delete(ctx, session, "p1")
		assert.ErrorIs(t, err, status.ErrUnauthorized)
	}
}

func TestAdmin_CreateReturnsFullList(t *testing.T) {
	store := newMemStore(models.Package{ID: "p0", Title: "Existing", Status: models.StatusActive})
	admin := NewAdmin[models.Package]("packages", store, packageSort, nil)

	list, err := admin.Create(context.Background(), adminSession, models.Package{
		ID:    "client-chosen",
		Title: "  Sonamarg Day Trip ",
		Price: decimal.NewFromInt(2500),
	})

	require.NoError(t, err)
	require.Len(t, list, 2)
	created := list[1]
	assert.Equal(t, "rec1", created.ID)
	assert.Equal(t, "Sonamarg Day Trip", created.Title)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.Equal(t, 1, created.Days)
}

func TestAdmin_CreateValidates(t *testing.T) {
	store := newMemStore[models.Package]()
	admin := NewAdmin[models.Package]("packages", store, packageSort, nil)

	_, err := admin.Create(context.Background(), adminSession, models.Package{Price: decimal.NewFromInt(-1)})

	require.ErrorIs(t, err, status.ErrValidation)
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "price")
	assert.Equal(t, 0, store.Creates())
}

func TestAdmin_UpdateRegeneratesPlaceSlug(t *testing.T) {
	store := newMemStore(models.Place{ID: "pl1", Name: "Gulmarg", Slug: "gulmarg", Status: models.StatusActive})
	admin := NewAdmin[models.Place]("places", store, placeSort, nil)

	list, err := admin.Update(context.Background(), adminSession, "pl1", models.Place{Name: "Gulmarg Gondola", Slug: "ignored"})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pl1", list[0].ID)
	assert.Equal(t, "gulmarg-gondola", list[0].Slug)
}

func TestAdmin_UpdateMissing(t *testing.T) {
	admin := NewAdmin[models.Service]("services", newMemStore[models.Service](), serviceSort, nil)

	_, err := admin.Update(context.Background(), adminSession, "nope", models.Service{Title: "Hotels"})

	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestAdmin_Delete(t *testing.T) {
	store := newMemStore(
		models.Cab{ID: "c1", Name: "Innova"},
		models.Cab{ID: "c2", Name: "Tempo"},
	)
	admin := NewAdmin[models.Cab]("cabs", store, cabSort, nil)

	list, err := admin.Delete(context.Background(), adminSession, "c1")

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c2", list[0].ID)
	assert.Equal(t, "cabs", admin.Entity())
}

func TestAdmin_SuperuserAllowed(t *testing.T) {
	admin := NewAdmin[models.Service]("services", newMemStore[models.Service](), serviceSort, nil)

	list, err := admin.List(context.Background(), auth.Session{UserID: "su", Superuser: true})

	require.NoError(t, err)
	assert.Empty(t, list)
}

func setupBookingAdmin() *BookingAdmin {
	packages := newMemStore(models.Package{ID: "pkg1", Title: "Gulmarg Snow Tour", Price: decimal.RequireFromString("12000.50")})
	bookings := newMemStore(
		models.Booking{ID: "b1", PackageID: "pkg1", Name: "Asha", Persons: 2, Status: models.BookingPending},
		models.Booking{ID: "b2", Name: "Ravi", Persons: 3, Message: "Hello\nPreferred package: Pahalgam Retreat\nThanks", Status: models.BookingPending},
		models.Booking{ID: "b3", Name: "Mira", Persons: 1, Status: models.BookingConfirmed},
		models.Booking{ID: "b4", PackageID: "deleted", Name: "Omar", Persons: 4},
	)
	return NewBookingAdmin(bookings, packages, nil)
}

func TestBookingAdmin_ListViews(t *testing.T) {
	views, err := setupBookingAdmin().List(context.Background(), adminSession)

	require.NoError(t, err)
	require.Len(t, views, 4)

	assert.Equal(t, "Gulmarg Snow Tour", views[0].PackageName)
	assert.True(t, decimal.RequireFromString("24001").Equal(views[0].TotalAmount))

	assert.Equal(t, "Pahalgam Retreat", views[1].PackageName)
	assert.True(t, views[1].TotalAmount.IsZero())

	assert.Equal(t, customBooking, views[2].PackageName)
	assert.Equal(t, customBooking, views[3].PackageName)
}

func TestBookingAdmin_Get(t *testing.T) {
	admin := setupBookingAdmin()

	view, err := admin.Get(context.Background(), adminSession, "b4")
	require.NoError(t, err)
	assert.Equal(t, missingPackage, view.PackageName)

	view, err = admin.Get(context.Background(), adminSession, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Gulmarg Snow Tour", view.PackageName)

	_, err = admin.Get(context.Background(), editorSession, "b1")
	assert.ErrorIs(t, err, status.ErrUnauthorized)
}

func TestBookingAdmin_UpdateStatus(t *testing.T) {
	admin := setupBookingAdmin()

	views, err := admin.UpdateStatus(context.Background(), adminSession, "b1", models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, views[0].Status)
	assert.Equal(t, "Asha", views[0].Name)

	_, err = admin.UpdateStatus(context.Background(), adminSession, "b1", "shipped")
	assert.ErrorIs(t, err, status.ErrInvalidStatus)

	_, err = admin.UpdateStatus(context.Background(), adminSession, "nope", models.BookingCompleted)
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestBookingAdmin_Delete(t *testing.T) {
	views, err := setupBookingAdmin().Delete(context.Background(), adminSession, "b2")

	require.NoError(t, err)
	assert.Len(t, views, 3)
}

func TestContactAdmin_UpdateStatus(t *testing.T) {
	store := newMemStore(models.Contact{ID: "c1", Name: "Ravi", Status: models.ContactPending})
	admin := NewContactAdmin(store, nil)
	fixed := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	admin.now = func() time.Time { return fixed }

	list, err := admin.UpdateStatus(context.Background(), adminSession, "c1", models.ContactArchived)
	require.NoError(t, err)
	assert.Nil(t, list[0].RepliedAt)

	list, err = admin.UpdateStatus(context.Background(), adminSession, "c1", models.ContactReplied)
	require.NoError(t, err)
	require.NotNil(t, list[0].RepliedAt)
	assert.Equal(t, fixed, *list[0].RepliedAt)

	_, err = admin.UpdateStatus(context.Background(), adminSession, "c1", "spam")
	assert.ErrorIs(t, err, status.ErrInvalidStatus)
}

func TestContactAdmin_ListAndDelete(t *testing.T) {
	store := newMemStore(models.Contact{ID: "c1"}, models.Contact{ID: "c2"})
	admin := NewContactAdmin(store, nil)

	_, err := admin.List(context.Background(), auth.Anonymous())
	assert.ErrorIs(t, err, status.ErrUnauthorized)

	list, err := admin.Delete(context.Background(), adminSession, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c2", list[0].ID)
}
