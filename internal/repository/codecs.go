package repository

import (
	"fmt"

	"travel-agency/migrations"
	"travel-agency/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type PackageCodec struct{}

func (PackageCodec) Collection() string { return migrations.Packages }

func (PackageCodec) Encode(p models.Package, record *core.Record) {
	record.Set("title", p.Title)
	record.Set("location", p.Location)
	record.Set("category", p.Category)
	record.Set("price", p.Price.InexactFloat64())
	record.Set("days", p.Days)
	record.Set("nights", p.Nights)
	record.Set("duration", p.Duration)
	record.Set("description", p.Description)
	record.Set("itinerary", p.Itinerary)
	record.Set("inclusions", p.Inclusions)
	record.Set("exclusions", p.Exclusions)
	record.Set("main_image_url", p.MainImageURL)
	record.Set("images", p.Images)
	record.Set("rating", p.Rating)
	record.Set("status", string(p.Status))
	record.Set("featured", p.Featured)
}

func (PackageCodec) Decode(record *core.Record) (models.Package, error) {
	p := models.Package{
		ID:           record.Id,
		Title:        record.GetString("title"),
		Location:     record.GetString("location"),
		Category:     record.GetString("category"),
		Price:        decimal.NewFromFloat(record.GetFloat("price")),
		Days:         record.GetInt("days"),
		Nights:       record.GetInt("nights"),
		Duration:     record.GetString("duration"),
		Description:  record.GetString("description"),
		MainImageURL: record.GetString("main_image_url"),
		Rating:       record.GetFloat("rating"),
		Status:       models.RecordStatus(record.GetString("status")),
		Featured:     record.GetBool("featured"),
		Created:      record.GetDateTime("created").Time(),
		Updated:      record.GetDateTime("updated").Time(),
	}
	if err := unmarshalLists(record, map[string]any{
		"itinerary":  &p.Itinerary,
		"inclusions": &p.Inclusions,
		"exclusions": &p.Exclusions,
		"images":     &p.Images,
	}); err != nil {
		return models.Package{}, err
	}
	return p.Normalize(), nil
}

type BookingCodec struct{}

func (BookingCodec) Collection() string { return migrations.Bookings }

func (BookingCodec) Encode(b models.Booking, record *core.Record) {
	record.Set("package", b.PackageID)
	record.Set("name", b.Name)
	record.Set("email", b.Email)
	record.Set("phone", b.Phone)
	record.Set("date", b.Date)
	record.Set("persons", b.Persons)
	record.Set("message", b.Message)
	record.Set("status", string(b.Status))
	record.Set("idempotency_key", b.IdempotencyKey)
}

func (BookingCodec) Decode(record *core.Record) (models.Booking, error) {
	return models.Booking{
		ID:             record.Id,
		PackageID:      record.GetString("package"),
		Name:           record.GetString("name"),
		Email:          record.GetString("email"),
		Phone:          record.GetString("phone"),
		Date:           record.GetString("date"),
		Persons:        record.GetInt("persons"),
		Message:        record.GetString("message"),
		Status:         models.BookingStatus(record.GetString("status")),
		IdempotencyKey: record.GetString("idempotency_key"),
		Created:        record.GetDateTime("created").Time(),
		Updated:        record.GetDateTime("updated").Time(),
	}, nil
}

type ContactCodec struct{}

func (ContactCodec) Collection() string { return migrations.Contacts }

func (ContactCodec) Encode(c models.Contact, record *core.Record) {
	record.Set("name", c.Name)
	record.Set("email", c.Email)
	record.Set("phone", c.Phone)
	record.Set("subject", c.Subject)
	record.Set("message", c.Message)
	record.Set("status", string(c.Status))
	if c.RepliedAt != nil {
		record.Set("replied_at", *c.RepliedAt)
	} else {
		record.Set("replied_at", "")
	}
}

func (ContactCodec) Decode(record *core.Record) (models.Contact, error) {
	c := models.Contact{
		ID:      record.Id,
		Name:    record.GetString("name"),
		Email:   record.GetString("email"),
		Phone:   record.GetString("phone"),
		Subject: record.GetString("subject"),
		Message: record.GetString("message"),
		Status:  models.ContactStatus(record.GetString("status")),
		Created: record.GetDateTime("created").Time(),
		Updated: record.GetDateTime("updated").Time(),
	}
	if replied := record.GetDateTime("replied_at"); !replied.IsZero() {
		t := replied.Time()
		c.RepliedAt = &t
	}
	return c, nil
}

type PlaceCodec struct{}

func (PlaceCodec) Collection() string { return migrations.Places }

func (PlaceCodec) Encode(p models.Place, record *core.Record) {
	record.Set("name", p.Name)
	record.Set("slug", p.Slug)
	record.Set("region", p.Region)
	record.Set("description", p.Description)
	record.Set("image_url", p.ImageURL)
	record.Set("status", string(p.Status))
	record.Set("ordering", p.Ordering)
}

func (PlaceCodec) Decode(record *core.Record) (models.Place, error) {
	return models.Place{
		ID:          record.Id,
		Name:        record.GetString("name"),
		Slug:        record.GetString("slug"),
		Region:      record.GetString("region"),
		Description: record.GetString("description"),
		ImageURL:    record.GetString("image_url"),
		Status:      models.RecordStatus(record.GetString("status")),
		Ordering:    record.GetInt("ordering"),
		Created:     record.GetDateTime("created").Time(),
		Updated:     record.GetDateTime("updated").Time(),
	}, nil
}

type CabCodec struct{}

func (CabCodec) Collection() string { return migrations.Cabs }

func (CabCodec) Encode(c models.Cab, record *core.Record) {
	record.Set("name", c.Name)
	record.Set("slug", c.Slug)
	record.Set("type", c.Type)
	record.Set("capacity", c.Capacity)
	record.Set("luggage_capacity", c.LuggageCapacity)
	record.Set("description", c.Description)
	record.Set("base_fare", c.BaseFare.InexactFloat64())
	record.Set("per_km_rate", c.PerKmRate.InexactFloat64())
	record.Set("tags", c.Tags)
	record.Set("status", string(c.Status))
	record.Set("featured", c.Featured)
	record.Set("main_image_url", c.MainImageURL)
	record.Set("ordering", c.Ordering)
}

func (CabCodec) Decode(record *core.Record) (models.Cab, error) {
	c := models.Cab{
		ID:              record.Id,
		Name:            record.GetString("name"),
		Slug:            record.GetString("slug"),
		Type:            record.GetString("type"),
		Capacity:        record.GetInt("capacity"),
		LuggageCapacity: record.GetInt("luggage_capacity"),
		Description:     record.GetString("description"),
		BaseFare:        decimal.NewFromFloat(record.GetFloat("base_fare")),
		PerKmRate:       decimal.NewFromFloat(record.GetFloat("per_km_rate")),
		Status:          models.RecordStatus(record.GetString("status")),
		Featured:        record.GetBool("featured"),
		MainImageURL:    record.GetString("main_image_url"),
		Ordering:        record.GetInt("ordering"),
		Created:         record.GetDateTime("created").Time(),
		Updated:         record.GetDateTime("updated").Time(),
	}
	if err := unmarshalLists(record, map[string]any{"tags": &c.Tags}); err != nil {
		return models.Cab{}, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c, nil
}

type ServiceCodec struct{}

func (ServiceCodec) Collection() string { return migrations.Services }

func (ServiceCodec) Encode(s models.Service, record *core.Record) {
	record.Set("title", s.Title)
	record.Set("description", s.Description)
	record.Set("icon", s.Icon)
	record.Set("status", string(s.Status))
}

func (ServiceCodec) Decode(record *core.Record) (models.Service, error) {
	return models.Service{
		ID:          record.Id,
		Title:       record.GetString("title"),
		Description: record.GetString("description"),
		Icon:        record.GetString("icon"),
		Status:      models.RecordStatus(record.GetString("status")),
		Created:     record.GetDateTime("created").Time(),
		Updated:     record.GetDateTime("updated").Time(),
	}, nil
}

// unmarshalLists decodes JSON fields; empty or null fields leave the target
// untouched.
func unmarshalLists(record *core.Record, targets map[string]any) error {
	for field, target := range targets {
		if raw := record.GetString(field); raw == "" || raw == "null" {
			continue
		}
		if err := record.UnmarshalJSONField(field, target); err != nil {
			return fmt.Errorf("decode %s.%s: %w", record.Collection().Name, field, err)
		}
	}
	return nil
}
