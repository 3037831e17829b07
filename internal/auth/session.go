package auth

import (
	"context"
	"fmt"

	"travel-agency/internal/status"
	"travel-agency/models"

	"github.com/pocketbase/pocketbase/core"
)

// Session is the caller identity handed to services. The zero value is the
// anonymous visitor.
type Session struct {
	UserID    string
	Email     string
	Role      string
	Superuser bool
}

func Anonymous() Session {
	return Session{}
}

// FromRecord builds a session from an already verified auth record.
func FromRecord(record *core.Record) Session {
	if record == nil {
		return Anonymous()
	}
	role := record.GetString("role")
	if role == "" && !record.IsSuperuser() {
		role = models.RoleCustomer
	}
	return Session{
		UserID:    record.Id,
		Email:     record.Email(),
		Role:      role,
		Superuser: record.IsSuperuser(),
	}
}

func FromRequest(e *core.RequestEvent) Session {
	return FromRecord(e.Auth)
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}

func (s Session) IsAdmin() bool {
	return s.Superuser || (s.Authenticated() && s.Role == models.RoleAdmin)
}

func (s Session) User() models.User {
	return models.User{ID: s.UserID, Email: s.Email, Role: s.Role}
}

func RequireAdmin(s Session) error {
	if !s.IsAdmin() {
		return status.ErrUnauthorized
	}
	return nil
}

// Logout invalidates every token issued for the session's record by
// rotating its token key.
func Logout(ctx context.Context, app core.App, s Session) error {
	if !s.Authenticated() {
		return status.ErrUnauthorized
	}

	collection := "users"
	if s.Superuser {
		collection = core.CollectionNameSuperusers
	}

	record, err := app.FindRecordById(collection, s.UserID)
	if err != nil {
		return fmt.Errorf("find session record: %w", status.ErrUnauthorized)
	}

	record.RefreshTokenKey()
	if err := app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("rotate token key: %w", err)
	}
	return nil
}
