package models

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Package is a tour package (a "journey" in the admin screens).
type Package struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Location     string          `json:"location"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Days         int             `json:"days"`
	Nights       int             `json:"nights"`
	Duration     string          `json:"duration"`
	Description  string          `json:"description"`
	Itinerary    []ItineraryDay  `json:"itinerary"`
	Inclusions   []string        `json:"inclusions"`
	Exclusions   []string        `json:"exclusions"`
	MainImageURL string          `json:"main_image_url"`
	Images       []string        `json:"images"`
	Rating       float64         `json:"rating"`
	Status       RecordStatus    `json:"status"`
	Featured     bool            `json:"featured"`
	Created      time.Time       `json:"created"`
	Updated      time.Time       `json:"updated"`
}

type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (d ItineraryDay) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Day, validation.Required, validation.Min(1)),
		validation.Field(&d.Title, validation.Required, validation.Length(1, 200)),
	)
}

func (p Package) RecordID() string { return p.ID }

func (p Package) WithID(id string) Package {
	p.ID = id
	return p
}

// Normalize trims text and fills the defaults the admin form relies on.
func (p Package) Normalize() Package {
	p.Title = strings.TrimSpace(p.Title)
	p.Location = strings.TrimSpace(p.Location)
	p.Category = strings.TrimSpace(p.Category)
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.Days == 0 {
		p.Days = 1
	}
	if p.Itinerary == nil {
		p.Itinerary = []ItineraryDay{}
	}
	p.Inclusions = compactStrings(p.Inclusions)
	p.Exclusions = compactStrings(p.Exclusions)
	p.Images = compactStrings(p.Images)
	return p
}

func (p Package) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Price, validation.By(nonNegativeDecimal)),
		validation.Field(&p.Days, validation.Required, validation.Min(1)),
		validation.Field(&p.Nights, validation.Min(0)),
		validation.Field(&p.Rating, validation.Min(0.0), validation.Max(5.0)),
		validation.Field(&p.Status, validation.In(StatusActive, StatusInactive)),
		validation.Field(&p.Itinerary),
	)
}

func nonNegativeDecimal(value any) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal")
	}
	if d.IsNegative() {
		return errors.New("must be no less than 0")
	}
	return nil
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
