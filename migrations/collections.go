package migrations

import (
	"errors"
	"fmt"

	"travel-agency/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Collection names shared with the repositories.
const (
	Packages = "packages"
	Bookings = "bookings"
	Contacts = "contacts"
	Places   = "places"
	Cabs     = "cabs"
	Services = "services"
	Media    = "media"
	Users    = "users"
)

// API rules for the built-in collection endpoints. Bookings and contacts
// have no create rule: anonymous writes only go through the server-side
// submission path, which runs with service-role access.
const (
	adminRule      = "@request.auth.role = 'admin'"
	publicReadRule = "status = 'active' || @request.auth.role = 'admin'"
)

// EnsureCollections creates every collection the site needs, skipping the
// ones that already exist. It is safe to call more than once.
func EnsureCollections(app core.App) error {
	if err := ensureUserRole(app); err != nil {
		return err
	}

	packages, err := ensure(app, Packages, buildPackages)
	if err != nil {
		return err
	}

	if _, err := ensure(app, Bookings, func(c *core.Collection) {
		buildBookings(c, packages.Id)
	}); err != nil {
		return err
	}

	for name, build := range map[string]func(*core.Collection){
		Contacts: buildContacts,
		Places:   buildPlaces,
		Cabs:     buildCabs,
		Services: buildServices,
		Media:    buildMedia,
	} {
		if _, err := ensure(app, name, build); err != nil {
			return err
		}
	}

	return nil
}

// DropCollections reverts EnsureCollections.
func DropCollections(app core.App) error {
	// bookings references packages, so it goes first
	for _, name := range []string{Bookings, Packages, Contacts, Places, Cabs, Services, Media} {
		collection, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			continue
		}
		if err := app.Delete(collection); err != nil {
			return fmt.Errorf("delete %s collection: %w", name, err)
		}
	}

	users, err := app.FindCollectionByNameOrId(Users)
	if err != nil {
		return nil
	}
	if users.Fields.GetByName("role") != nil {
		users.Fields.RemoveByName("role")
		return app.Save(users)
	}
	return nil
}

func ensure(app core.App, name string, build func(*core.Collection)) (*core.Collection, error) {
	if existing, err := app.FindCollectionByNameOrId(name); err == nil {
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	build(collection)
	collection.Fields.Add(
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("save %s collection: %w", name, err)
	}
	return collection, nil
}

func ensureUserRole(app core.App) error {
	users, err := app.FindCollectionByNameOrId(Users)
	if err != nil {
		return errors.New("users auth collection is missing")
	}
	if users.Fields.GetByName("role") != nil {
		return nil
	}

	users.Fields.Add(&core.SelectField{
		Name:      "role",
		Values:    models.Roles,
		MaxSelect: 1,
	})
	if err := app.Save(users); err != nil {
		return fmt.Errorf("add role field to users: %w", err)
	}
	return nil
}

func catalogRules(c *core.Collection) {
	c.ListRule = types.Pointer(publicReadRule)
	c.ViewRule = types.Pointer(publicReadRule)
	c.CreateRule = types.Pointer(adminRule)
	c.UpdateRule = types.Pointer(adminRule)
	c.DeleteRule = types.Pointer(adminRule)
}

func inboxRules(c *core.Collection) {
	c.ListRule = types.Pointer(adminRule)
	c.ViewRule = types.Pointer(adminRule)
	c.CreateRule = nil
	c.UpdateRule = types.Pointer(adminRule)
	c.DeleteRule = types.Pointer(adminRule)
}

func statusField(values []string) *core.SelectField {
	return &core.SelectField{Name: "status", Values: values, MaxSelect: 1, Required: true}
}

func buildPackages(c *core.Collection) {
	catalogRules(c)
	c.Fields.Add(
		&core.TextField{Name: "title", Required: true, Max: 200},
		&core.TextField{Name: "location", Max: 200},
		&core.TextField{Name: "category", Max: 100},
		&core.NumberField{Name: "price", Min: types.Pointer(0.0)},
		&core.NumberField{Name: "days", Required: true, OnlyInt: true, Min: types.Pointer(1.0)},
		&core.NumberField{Name: "nights", OnlyInt: true, Min: types.Pointer(0.0)},
		&core.TextField{Name: "duration", Max: 100},
		&core.TextField{Name: "description", Max: 20000},
		&core.JSONField{Name: "itinerary", MaxSize: 1 << 20},
		&core.JSONField{Name: "inclusions", MaxSize: 1 << 16},
		&core.JSONField{Name: "exclusions", MaxSize: 1 << 16},
		&core.TextField{Name: "main_image_url", Max: 1000},
		&core.JSONField{Name: "images", MaxSize: 1 << 16},
		&core.NumberField{Name: "rating", Min: types.Pointer(0.0), Max: types.Pointer(5.0)},
		statusField(models.RecordStatuses),
		&core.BoolField{Name: "featured"},
	)
	c.AddIndex("idx_packages_status", false, "status", "")
}

func buildBookings(c *core.Collection, packagesID string) {
	inboxRules(c)
	c.Fields.Add(
		&core.RelationField{Name: "package", CollectionId: packagesID, MaxSelect: 1},
		&core.TextField{Name: "name", Required: true, Max: 120},
		&core.EmailField{Name: "email", Required: true},
		&core.TextField{Name: "phone", Required: true, Max: 32},
		&core.TextField{Name: "date", Required: true, Pattern: `^\d{4}-\d{2}-\d{2}$`},
		&core.NumberField{Name: "persons", Required: true, OnlyInt: true, Min: types.Pointer(1.0)},
		&core.TextField{Name: "message", Max: 4000},
		statusField(models.BookingStatuses),
		&core.TextField{Name: "idempotency_key", Max: 128, Hidden: true},
	)
	c.AddIndex("idx_bookings_idempotency_key", true, "idempotency_key", "idempotency_key != ''")
	c.AddIndex("idx_bookings_status", false, "status", "")
}

func buildContacts(c *core.Collection) {
	inboxRules(c)
	c.Fields.Add(
		&core.TextField{Name: "name", Required: true, Max: 120},
		&core.EmailField{Name: "email", Required: true},
		&core.TextField{Name: "phone", Max: 32},
		&core.TextField{Name: "subject", Max: 200},
		&core.TextField{Name: "message", Required: true, Max: 4000},
		statusField(models.ContactStatuses),
		&core.DateField{Name: "replied_at"},
	)
}

func buildPlaces(c *core.Collection) {
	catalogRules(c)
	c.Fields.Add(
		&core.TextField{Name: "name", Required: true, Max: 120},
		&core.TextField{Name: "slug", Required: true, Max: 140},
		&core.TextField{Name: "region", Max: 120},
		&core.TextField{Name: "description", Max: 20000},
		&core.TextField{Name: "image_url", Max: 1000},
		statusField(models.RecordStatuses),
		&core.NumberField{Name: "ordering", OnlyInt: true},
	)
	c.AddIndex("idx_places_slug", true, "slug", "")
}

func buildCabs(c *core.Collection) {
	catalogRules(c)
	c.Fields.Add(
		&core.TextField{Name: "name", Required: true, Max: 120},
		&core.TextField{Name: "slug", Max: 140},
		&core.SelectField{Name: "type", Values: models.CabTypes, MaxSelect: 1},
		&core.NumberField{Name: "capacity", OnlyInt: true, Min: types.Pointer(0.0)},
		&core.NumberField{Name: "luggage_capacity", OnlyInt: true, Min: types.Pointer(0.0)},
		&core.TextField{Name: "description", Max: 5000},
		&core.NumberField{Name: "base_fare", Min: types.Pointer(0.0)},
		&core.NumberField{Name: "per_km_rate", Min: types.Pointer(0.0)},
		&core.JSONField{Name: "tags", MaxSize: 1 << 14},
		statusField(models.RecordStatuses),
		&core.BoolField{Name: "featured"},
		&core.TextField{Name: "main_image_url", Max: 1000},
		&core.NumberField{Name: "ordering", OnlyInt: true},
	)
}

func buildServices(c *core.Collection) {
	catalogRules(c)
	c.Fields.Add(
		&core.TextField{Name: "title", Required: true, Max: 120},
		&core.TextField{Name: "description", Max: 5000},
		&core.TextField{Name: "icon", Max: 100},
		statusField(models.RecordStatuses),
	)
}

func buildMedia(c *core.Collection) {
	c.ListRule = types.Pointer("")
	c.ViewRule = types.Pointer("")
	c.CreateRule = types.Pointer(adminRule)
	c.UpdateRule = types.Pointer(adminRule)
	c.DeleteRule = types.Pointer(adminRule)
	c.Fields.Add(
		&core.SelectField{Name: "bucket", Values: models.MediaBuckets, MaxSelect: 1, Required: true},
		&core.TextField{Name: "folder", Max: 100},
		&core.FileField{
			Name:      "file",
			Required:  true,
			MaxSelect: 1,
			MaxSize:   10 << 20,
			MimeTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/svg+xml"},
		},
	)
}
