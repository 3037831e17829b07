package models

// Entity is implemented by every model persisted as a collection record.
type Entity[T any] interface {
	RecordID() string
	WithID(id string) T
}

// RecordStatus gates public visibility of catalog records.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

func (s RecordStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactPending, ContactReplied, ContactArchived:
		return true
	}
	return false
}

const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleCustomer = "customer"
)

var (
	RecordStatuses  = []string{string(StatusActive), string(StatusInactive)}
	BookingStatuses = []string{string(BookingPending), string(BookingConfirmed), string(BookingCompleted), string(BookingCancelled)}
	ContactStatuses = []string{string(ContactPending), string(ContactReplied), string(ContactArchived)}
	Roles           = []string{RoleAdmin, RoleEditor, RoleCustomer}
)
