package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"travel-agency/internal/auth"
	"travel-agency/internal/status"
	"travel-agency/migrations"
	"travel-agency/models"

	"github.com/pocketbase/pocketbase/core"
)

type UserService struct {
	app    core.App
	logger *slog.Logger
}

func NewUserService(app core.App, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{app: app, logger: logger}
}

// PromoteAdmin grants the admin role. Only the CLI calls it; there is no
// HTTP route that lets a user raise their own role.
func (s *UserService) PromoteAdmin(ctx context.Context, email string) (models.User, error) {
	return s.SetRole(ctx, email, models.RoleAdmin)
}

func (s *UserService) SetRole(ctx context.Context, email, role string) (models.User, error) {
	if !slices.Contains(models.Roles, role) {
		return models.User{}, fmt.Errorf("role %q: %w", role, status.ErrValidation)
	}

	record, err := s.app.FindAuthRecordByEmail(migrations.Users, strings.TrimSpace(email))
	if err != nil {
		return models.User{}, fmt.Errorf("user %s: %w", email, status.ErrNotFound)
	}

	record.Set("role", role)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return models.User{}, fmt.Errorf("save role: %w", err)
	}

	s.logger.Info("User role changed", "user_id", record.Id, "role", role)
	return models.User{ID: record.Id, Email: record.Email(), Role: role}, nil
}

func (s *UserService) Me(session auth.Session) (models.User, error) {
	if !session.Authenticated() {
		return models.User{}, status.ErrUnauthorized
	}
	return session.User(), nil
}

func (s *UserService) Logout(ctx context.Context, session auth.Session) error {
	if err := auth.Logout(ctx, s.app, session); err != nil {
		return err
	}
	s.logger.Info("Session revoked", "user_id", session.UserID)
	return nil
}
