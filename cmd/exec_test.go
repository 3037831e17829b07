package cmd

import (
	"context"
	"testing"
	"time"

	"travel-agency/monitoring"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signalCounter struct {
	counted chan struct{}
}

func (c *signalCounter) Collection() string { return "packages" }

func (c *signalCounter) Count(context.Context, string) (int64, error) {
	select {
	case c.counted <- struct{}{}:
	default:
	}
	return 1, nil
}

func TestRunCollectorOnServe(t *testing.T) {
	app, err := tests.NewTestApp()
	require.NoError(t, err)
	defer app.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counter := &signalCounter{counted: make(chan struct{}, 1)}
	runCollectorOnServe(ctx, app, monitoring.NewCollector(time.Hour, nil, counter))

	select {
	case <-counter.counted:
		t.Fatal("collector counted before the app was served")
	case <-time.After(50 * time.Millisecond):
	}

	err = app.OnServe().Trigger(&core.ServeEvent{App: app}, func(*core.ServeEvent) error { return nil })
	require.NoError(t, err)

	select {
	case <-counter.counted:
	case <-time.After(time.Second):
		assert.Fail(t, "collector did not start after serve")
	}
}
