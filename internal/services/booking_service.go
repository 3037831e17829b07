package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"travel-agency/internal/notify"
	"travel-agency/internal/repository"
	"travel-agency/internal/status"
	"travel-agency/models"
	"travel-agency/monitoring"
	"travel-agency/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/dbx"
)

const maxIdempotencyKeyLen = 100

var preferredPackage = regexp.MustCompile(`Preferred package:[ \t]*(.+)`)

// KeyStore tracks submission keys; see IdempotencyStore.
type KeyStore interface {
	Reserve(ctx context.Context, key string) (string, error)
	Complete(ctx context.Context, key, bookingID string) error
	Release(ctx context.Context, key string) error
}

type BookingResult struct {
	Booking   models.Booking `json:"booking"`
	Package   string         `json:"package_title,omitempty"`
	Duplicate bool           `json:"duplicate"`
	FollowUp  FollowUpLinks  `json:"follow_up"`
}

// BookingService is the single write path for anonymous booking requests.
// It writes with the server's own access, so the bookings collection keeps
// no public create rule.
type BookingService struct {
	bookings repository.Store[models.Booking]
	packages repository.Store[models.Package]
	keys     KeyStore
	notifier notify.Notifier
	followUp FollowUp
	retry    utils.RetryPolicy
	logger   *slog.Logger
}

func NewBookingService(
	bookings repository.Store[models.Booking],
	packages repository.Store[models.Package],
	keys KeyStore,
	notifier notify.Notifier,
	followUp FollowUp,
	retryBackoff time.Duration,
	logger *slog.Logger,
) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &BookingService{
		bookings: bookings,
		packages: packages,
		keys:     keys,
		notifier: notifier,
		followUp: followUp,
		retry: utils.RetryPolicy{
			Attempts:  2,
			Backoff:   retryBackoff,
			Retryable: retryable,
		},
		logger: logger,
	}
}

// Submit validates and stores a booking request. Repeating a request with
// the same key returns the booking stored the first time.
func (s *BookingService) Submit(ctx context.Context, req models.BookingRequest, idempotencyKey string) (BookingResult, error) {
	started := time.Now()
	defer monitoring.ObserveSubmission("booking", started)

	req = req.Normalize()
	if err := req.Validate(); err != nil {
		monitoring.TrackSubmission("booking", "invalid")
		return BookingResult{}, fmt.Errorf("%w: %w", status.ErrValidation, err)
	}
	if len(idempotencyKey) > maxIdempotencyKeyLen {
		monitoring.TrackSubmission("booking", "invalid")
		return BookingResult{}, fmt.Errorf("%w: idempotency key too long", status.ErrValidation)
	}

	pkg, err := s.resolvePackage(ctx, req)
	if err != nil {
		monitoring.TrackSubmission("booking", "rejected")
		return BookingResult{}, err
	}

	key := idempotencyKey
	if key == "" {
		key = Fingerprint(req)
	}

	if result, found, err := s.findDuplicate(ctx, key, pkg); err != nil || found {
		return result, err
	}

	booking := models.Booking{
		PackageID:      pkg.ID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Date:           req.Date,
		Persons:        req.Persons,
		Message:        req.Message,
		Status:         models.BookingPending,
		IdempotencyKey: key,
	}

	var created models.Booking
	err = utils.Retry(ctx, s.retry, func(ctx context.Context) error {
		var err error
		created, err = s.bookings.Create(ctx, booking)
		return err
	})
	if err != nil {
		// a concurrent request with the same key won the unique index
		if existing, findErr := s.findByKey(ctx, key); findErr == nil {
			if err := s.keys.Complete(ctx, key, existing.ID); err != nil {
				s.logger.Warn("Failed to complete idempotency key", "key", key, "booking_id", existing.ID, "error", err)
			}
			return s.duplicate(existing, pkg), nil
		}
		monitoring.TrackSubmission("booking", "failed")
		if relErr := s.keys.Release(ctx, key); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", "key", key, "error", relErr)
		}
		s.logger.Error("Failed to store booking", "email", req.Email, "error", err)
		return BookingResult{}, fmt.Errorf("store booking: %w", err)
	}

	if err := s.keys.Complete(ctx, key, created.ID); err != nil {
		s.logger.Warn("Failed to complete idempotency key", "key", key, "booking_id", created.ID, "error", err)
	}
	monitoring.TrackSubmission("booking", "created")

	title := pkg.Title
	if title == "" {
		title = req.PackageLabel
	}
	s.notify(ctx, created, title)

	s.logger.Info("Booking received", "booking_id", created.ID, "package_id", created.PackageID)
	return BookingResult{
		Booking:  created,
		Package:  title,
		FollowUp: s.followUp.ForBooking(created, title),
	}, nil
}

func (s *BookingService) resolvePackage(ctx context.Context, req models.BookingRequest) (models.Package, error) {
	switch {
	case req.PackageID != "":
		pkg, err := s.packages.Get(ctx, req.PackageID)
		if errors.Is(err, status.ErrNotFound) || (err == nil && pkg.Status != models.StatusActive) {
			return models.Package{}, status.ErrPackageNotFound
		}
		if err != nil {
			return models.Package{}, fmt.Errorf("load package: %w", err)
		}
		return pkg, nil

	case req.PackageLabel != "":
		// labels match active titles only, as ids do
		packages, err := s.packages.List(ctx, repository.Query{Status: string(models.StatusActive)})
		if err != nil {
			return models.Package{}, fmt.Errorf("resolve package label: %w", err)
		}
		for _, pkg := range packages {
			if strings.EqualFold(pkg.Title, req.PackageLabel) {
				return pkg, nil
			}
		}
		return models.Package{}, status.ErrPackageNotFound
	}
	return models.Package{}, nil
}

// findByKey looks up the booking stored under key. Keys compare exactly,
// like the unique index on the column.
func (s *BookingService) findByKey(ctx context.Context, key string) (models.Booking, error) {
	return s.bookings.FindFirst(ctx, "idempotency_key = {:key}", dbx.Params{"key": key})
}

// findDuplicate reserves key or reports the booking it already produced.
// When the key store is unreachable the stored idempotency_key column is
// checked instead.
func (s *BookingService) findDuplicate(ctx context.Context, key string, pkg models.Package) (BookingResult, bool, error) {
	existingID, err := s.keys.Reserve(ctx, key)
	switch {
	case errors.Is(err, status.ErrSubmissionInFlight):
		monitoring.TrackSubmission("booking", "in_flight")
		return BookingResult{}, true, err
	case err != nil:
		s.logger.Warn("Idempotency store unavailable, checking bookings", "error", err)
		existing, findErr := s.findByKey(ctx, key)
		if findErr != nil {
			return BookingResult{}, false, nil
		}
		return s.duplicate(existing, pkg), true, nil
	case existingID == "":
		return BookingResult{}, false, nil
	}

	existing, err := s.bookings.Get(ctx, existingID)
	if errors.Is(err, status.ErrNotFound) {
		// the earlier booking was deleted by an admin; accept the request again
		return BookingResult{}, false, nil
	}
	if err != nil {
		return BookingResult{}, true, fmt.Errorf("load existing booking: %w", err)
	}
	return s.duplicate(existing, pkg), true, nil
}

func (s *BookingService) duplicate(existing models.Booking, pkg models.Package) BookingResult {
	monitoring.TrackSubmission("booking", "duplicate")
	return BookingResult{
		Booking:   existing,
		Package:   pkg.Title,
		Duplicate: true,
		FollowUp:  s.followUp.ForBooking(existing, pkg.Title),
	}
}

func (s *BookingService) notify(ctx context.Context, b models.Booking, title string) {
	if title == "" {
		title = customBooking
	}
	event := notify.Event{
		Kind:    "booking",
		ID:      b.ID,
		Title:   title,
		Summary: fmt.Sprintf("%s <%s>, %s, %d person(s) on %s", b.Name, b.Email, b.Phone, b.Persons, b.Date),
		Created: b.Created,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("Failed to notify admins", "booking_id", b.ID, "error", err)
	}
}

func retryable(err error) bool {
	var verrs validation.Errors
	return !status.IsPermanent(err) && !errors.As(err, &verrs) && !errors.Is(err, context.Canceled)
}
