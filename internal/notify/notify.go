package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"travel-agency/monitoring"
)

// Event is an admin-facing notice about a new submission.
type Event struct {
	Kind    string    `json:"kind"`
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	Created time.Time `json:"created"`
}

func (e Event) Text() string {
	return fmt.Sprintf("New %s: %s\n%s", e.Kind, e.Title, e.Summary)
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, event Event) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		err := n.Notify(ctx, event)
		monitoring.TrackNotification(n.Name(), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Async delivers events in a background goroutine. Failures are only
// logged.
type Async struct {
	next    Notifier
	timeout time.Duration
	logger  *slog.Logger
}

func NewAsync(next Notifier, timeout time.Duration, logger *slog.Logger) *Async {
	if logger == nil {
		logger = slog.Default()
	}
	return &Async{next: next, timeout: timeout, logger: logger}
}

func (a *Async) Name() string { return a.next.Name() }

func (a *Async) Notify(ctx context.Context, event Event) error {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		if err := a.next.Notify(ctx, event); err != nil {
			a.logger.Warn("Failed to deliver admin notification", "kind", event.Kind, "id", event.ID, "error", err)
		}
	}()
	return nil
}

// Nop is used when no channel is configured.
type Nop struct{}

func (Nop) Name() string { return "nop" }
func (Nop) Notify(context.Context, Event) error { return nil }
