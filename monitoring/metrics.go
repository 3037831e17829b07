package monitoring

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Public booking and contact submissions by outcome",
		},
		[]string{"kind", "outcome"},
	)

	adminMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_mutations_total",
			Help: "Admin create, update and delete operations",
		},
		[]string{"entity", "op", "outcome"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Admin notifications sent per channel",
		},
		[]string{"channel", "outcome"},
	)

	activeRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_active_records",
			Help: "Active records per catalog collection",
		},
		[]string{"collection"},
	)

	submitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "submission_duration_seconds",
			Help:    "Time spent handling a public submission",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"kind"},
	)
)

func TrackSubmission(kind, outcome string) {
	submissions.WithLabelValues(kind, outcome).Inc()
}

func ObserveSubmission(kind string, started time.Time) {
	submitDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

func TrackAdminMutation(entity, op string, err error) {
	adminMutations.WithLabelValues(entity, op, outcome(err)).Inc()
}

func TrackNotification(channel string, err error) {
	notifications.WithLabelValues(channel, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Counter reports the number of active records in one collection.
type Counter interface {
	Collection() string
	Count(ctx context.Context, status string) (int64, error)
}

// Collector refreshes the catalog gauges on a fixed interval.
type Collector struct {
	counters []Counter
	interval time.Duration
	logger   *slog.Logger
}

func NewCollector(interval time.Duration, logger *slog.Logger, counters ...Counter) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{counters: counters, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) {
	c.Refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

func (c *Collector) Refresh(ctx context.Context) {
	for _, counter := range c.counters {
		n, err := counter.Count(ctx, "active")
		if err != nil {
			c.logger.Warn("Failed to count catalog records", "collection", counter.Collection(), "error", err)
			continue
		}
		activeRecords.WithLabelValues(counter.Collection()).Set(float64(n))
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
