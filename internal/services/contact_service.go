package services

import (
	"context"
	"fmt"
	"log/slog"

	"travel-agency/internal/notify"
	"travel-agency/internal/repository"
	"travel-agency/internal/status"
	"travel-agency/models"
	"travel-agency/monitoring"
)

type ContactResult struct {
	Contact  models.Contact `json:"contact"`
	FollowUp FollowUpLinks  `json:"follow_up"`
}

type ContactService struct {
	contacts repository.Store[models.Contact]
	notifier notify.Notifier
	followUp FollowUp
	logger   *slog.Logger
}

func NewContactService(contacts repository.Store[models.Contact], notifier notify.Notifier, followUp FollowUp, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ContactService{contacts: contacts, notifier: notifier, followUp: followUp, logger: logger}
}

func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest) (ContactResult, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		monitoring.TrackSubmission("contact", "invalid")
		return ContactResult{}, fmt.Errorf("%w: %w", status.ErrValidation, err)
	}

	created, err := s.contacts.Create(ctx, models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.ContactPending,
	})
	if err != nil {
		monitoring.TrackSubmission("contact", "failed")
		s.logger.Error("Failed to store contact message", "email", req.Email, "error", err)
		return ContactResult{}, fmt.Errorf("store contact: %w", err)
	}
	monitoring.TrackSubmission("contact", "created")

	if err := s.notifier.Notify(ctx, notify.Event{
		Kind:    "contact",
		ID:      created.ID,
		Title:   created.Subject,
		Summary: fmt.Sprintf("%s <%s>: %s", created.Name, created.Email, created.Message),
		Created: created.Created,
	}); err != nil {
		s.logger.Warn("Failed to notify admins", "contact_id", created.ID, "error", err)
	}

	return ContactResult{Contact: created, FollowUp: s.followUp.ForContact(created)}, nil
}
