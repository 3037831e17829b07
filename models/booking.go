package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// BookingRequest is the public booking form payload. The package may be
// referenced by id or, when the form only knows the title, by label.
type BookingRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Date         string `json:"date"`
	Persons      int    `json:"persons"`
	PackageID    string `json:"packageId"`
	PackageLabel string `json:"packageLabel"`
	Message      string `json:"message"`
}

func (r BookingRequest) Normalize() BookingRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Date = strings.TrimSpace(r.Date)
	r.PackageID = strings.TrimSpace(r.PackageID)
	r.PackageLabel = strings.TrimSpace(r.PackageLabel)
	r.Message = strings.TrimSpace(r.Message)
	return r
}

func (r BookingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Phone, validation.Required, validation.Length(5, 32)),
		validation.Field(&r.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.Persons, validation.Required, validation.Min(1)),
		validation.Field(&r.Message, validation.Length(0, 4000)),
	)
}

type Booking struct {
	ID             string        `json:"id"`
	PackageID      string        `json:"package_id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Date           string        `json:"date"`
	Persons        int           `json:"persons"`
	Message        string        `json:"message"`
	Status         BookingStatus `json:"status"`
	IdempotencyKey string        `json:"-"`
	Created        time.Time     `json:"created"`
	Updated        time.Time     `json:"updated"`
}

func (b Booking) RecordID() string { return b.ID }

func (b Booking) WithID(id string) Booking {
	b.ID = id
	return b
}

// TotalAmount is the package price multiplied by the number of travellers.
func (b Booking) TotalAmount(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(b.Persons)))
}

// BookingView is the admin listing row: the booking plus its package summary.
type BookingView struct {
	Booking
	PackageName  string          `json:"package_name"`
	PackagePrice decimal.Decimal `json:"package_price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
