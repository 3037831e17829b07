package repository

import (
	"context"
	"testing"

	"travel-agency/internal/status"
	"travel-agency/migrations"
	"travel-agency/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *tests.TestApp {
	t.Helper()

	app, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	require.NoError(t, migrations.EnsureCollections(app))
	return app
}

func TestPackageRepository_CRUD(t *testing.T) {
	app := setupApp(t)
	repo := New[models.Package](app, PackageCodec{})
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Package{
		Title:      "Kashmir Great Lakes",
		Location:   "Sonamarg",
		Price:      decimal.RequireFromString("14999.50"),
		Days:       7,
		Nights:     6,
		Itinerary:  []models.ItineraryDay{{Day: 1, Title: "Arrival"}},
		Inclusions: []string{"Meals", "Tents"},
		Status:     models.StatusActive,
		Featured:   true,
	}.Normalize())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kashmir Great Lakes", got.Title)
	assert.True(t, decimal.RequireFromString("14999.50").Equal(got.Price))
	assert.Equal(t, []models.ItineraryDay{{Day: 1, Title: "Arrival"}}, got.Itinerary)
	assert.Equal(t, []string{"Meals", "Tents"}, got.Inclusions)
	assert.Equal(t, []string{}, got.Exclusions)
	assert.False(t, got.Created.IsZero())

	got.Title = "Kashmir Great Lakes Trek"
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Kashmir Great Lakes Trek", updated.Title)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestRepository_ListEmptyIsNonNil(t *testing.T) {
	app := setupApp(t)
	repo := New[models.Service](app, ServiceCodec{})

	services, err := repo.List(context.Background(), Query{Status: string(models.StatusActive)})

	require.NoError(t, err)
	assert.NotNil(t, services)
	assert.Empty(t, services)
}

func TestRepository_ListFiltersAndSorts(t *testing.T) {
	app := setupApp(t)
	repo := New[models.Place](app, PlaceCodec{})
	ctx := context.Background()

	for _, p := range []models.Place{
		{Name: "Pahalgam", Ordering: 2, Status: models.StatusActive},
		{Name: "Gulmarg", Ordering: 1, Status: models.StatusActive},
		{Name: "Doodhpathri", Ordering: 0, Status: models.StatusInactive},
	} {
		_, err := repo.Create(ctx, p.Normalize())
		require.NoError(t, err)
	}

	places, err := repo.List(ctx, Query{Status: string(models.StatusActive), Sort: "ordering,-created"})
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "gulmarg", places[0].Slug)
	assert.Equal(t, "pahalgam", places[1].Slug)

	limited, err := repo.List(ctx, Query{Filter: "ordering >= {:min}", Params: dbx.Params{"min": 1}, Limit: 1, Sort: "-ordering"})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Pahalgam", limited[0].Name)

	count, err := repo.Count(ctx, string(models.StatusActive))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRepository_FindByFold(t *testing.T) {
	app := setupApp(t)
	repo := New[models.Package](app, PackageCodec{})
	ctx := context.Background()

	_, err := repo.Create(ctx, models.Package{Title: "Gurez Valley Escape", Days: 3}.Normalize())
	require.NoError(t, err)

	found, err := repo.FindByFold(ctx, "title", "gurez VALLEY escape")
	require.NoError(t, err)
	assert.Equal(t, "Gurez Valley Escape", found.Title)

	_, err = repo.FindByFold(ctx, "title", "Gurez")
	assert.ErrorIs(t, err, status.ErrNotFound)

	_, err = repo.FindByFold(ctx, "title; DROP", "x")
	assert.ErrorIs(t, err, status.ErrValidation)
}

func TestRepository_FindFirst(t *testing.T) {
	app := setupApp(t)
	repo := New[models.Place](app, PlaceCodec{})
	ctx := context.Background()

	_, err := repo.Create(ctx, models.Place{Name: "Sonamarg"}.Normalize())
	require.NoError(t, err)

	place, err := repo.FindFirst(ctx, "slug = {:slug}", dbx.Params{"slug": "sonamarg"})
	require.NoError(t, err)
	assert.Equal(t, "Sonamarg", place.Name)

	_, err = repo.FindFirst(ctx, "slug = {:slug}", dbx.Params{"slug": "missing"})
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestBookingAndContactCodecs(t *testing.T) {
	app := setupApp(t)
	ctx := context.Background()

	packages := New[models.Package](app, PackageCodec{})
	pkg, err := packages.Create(ctx, models.Package{Title: "Srinagar Houseboat", Days: 2}.Normalize())
	require.NoError(t, err)

	bookings := New[models.Booking](app, BookingCodec{})
	booking, err := bookings.Create(ctx, models.Booking{
		PackageID:      pkg.ID,
		Name:           "Asha",
		Email:          "asha@example.com",
		Phone:          "+91 70000 00000",
		Date:           "2026-11-02",
		Persons:        2,
		Status:         models.BookingPending,
		IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, pkg.ID, booking.PackageID)
	assert.Equal(t, "key-1", booking.IdempotencyKey)

	contacts := New[models.Contact](app, ContactCodec{})
	contact, err := contacts.Create(ctx, models.Contact{
		Name:    "Ravi",
		Email:   "ravi@example.com",
		Subject: models.DefaultContactSubject,
		Message: "Is March a good time?",
		Status:  models.ContactPending,
	})
	require.NoError(t, err)
	assert.Nil(t, contact.RepliedAt)
}

func TestRepository_MissingID(t *testing.T) {
	app := setupApp(t)
	repo := New[models.Cab](app, CabCodec{})

	_, err := repo.Get(context.Background(), "")
	assert.ErrorIs(t, err, status.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), status.ErrNotFound)
}
