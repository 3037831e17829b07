package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type Place struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Region      string       `json:"region"`
	Description string       `json:"description"`
	ImageURL    string       `json:"image_url"`
	Status      RecordStatus `json:"status"`
	Ordering    int          `json:"ordering"`
	Created     time.Time    `json:"created"`
	Updated     time.Time    `json:"updated"`
}

func (p Place) RecordID() string { return p.ID }

func (p Place) WithID(id string) Place {
	p.ID = id
	return p
}

// Normalize derives the slug from the name on every save.
func (p Place) Normalize() Place {
	p.Name = strings.TrimSpace(p.Name)
	p.Region = strings.TrimSpace(p.Region)
	p.Slug = Slugify(p.Name)
	if p.Status == "" {
		p.Status = StatusActive
	}
	return p
}

func (p Place) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Slug, validation.Required),
		validation.Field(&p.Status, validation.In(StatusActive, StatusInactive)),
		validation.Field(&p.Ordering, validation.Min(0)),
	)
}

var CabTypes = []string{"sedan", "suv", "tempo", "bus", "other"}

type Cab struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Type            string          `json:"type"`
	Capacity        int             `json:"capacity"`
	LuggageCapacity int             `json:"luggage_capacity"`
	Description     string          `json:"description"`
	BaseFare        decimal.Decimal `json:"base_fare"`
	PerKmRate       decimal.Decimal `json:"per_km_rate"`
	Tags            []string        `json:"tags"`
	Status          RecordStatus    `json:"status"`
	Featured        bool            `json:"featured"`
	MainImageURL    string          `json:"main_image_url"`
	Ordering        int             `json:"ordering"`
	Created         time.Time       `json:"created"`
	Updated         time.Time       `json:"updated"`
}

func (c Cab) RecordID() string { return c.ID }

func (c Cab) WithID(id string) Cab {
	c.ID = id
	return c
}

func (c Cab) Normalize() Cab {
	c.Name = strings.TrimSpace(c.Name)
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if c.Type == "" {
		c.Type = "sedan"
	}
	if c.Capacity == 0 {
		c.Capacity = 4
	}
	if c.LuggageCapacity == 0 {
		c.LuggageCapacity = 2
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	c.Tags = compactStrings(c.Tags)
	return c
}

func (c Cab) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.Type, validation.In(toAny(CabTypes)...)),
		validation.Field(&c.Capacity, validation.Min(1)),
		validation.Field(&c.LuggageCapacity, validation.Min(0)),
		validation.Field(&c.BaseFare, validation.By(nonNegativeDecimal)),
		validation.Field(&c.PerKmRate, validation.By(nonNegativeDecimal)),
		validation.Field(&c.Status, validation.In(StatusActive, StatusInactive)),
	)
}

type Service struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Status      RecordStatus `json:"status"`
	Created     time.Time    `json:"created"`
	Updated     time.Time    `json:"updated"`
}

func (s Service) RecordID() string { return s.ID }

func (s Service) WithID(id string) Service {
	s.ID = id
	return s
}

func (s Service) Normalize() Service {
	s.Title = strings.TrimSpace(s.Title)
	s.Icon = strings.TrimSpace(s.Icon)
	if s.Status == "" {
		s.Status = StatusActive
	}
	return s
}

func (s Service) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&s.Status, validation.In(StatusActive, StatusInactive)),
	)
}

// Home is the landing page payload.
type Home struct {
	FeaturedPackages []Package `json:"featured_packages"`
	Services         []Service `json:"services"`
	Places           []Place   `json:"places"`
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
