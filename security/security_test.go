package security

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(userAgent string) (*core.RequestEvent, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	rec := httptest.NewRecorder()

	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec
	return e, rec
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr), "expected an api error, got %v", err)
	return apiErr.Status
}

func expectHit(mock redismock.ClientMock, key string, count int64, expireSet bool) {
	mock.ExpectTxPipeline()
	mock.ExpectIncr(key).SetVal(count)
	mock.ExpectExpireNX(key, time.Minute).SetVal(expireSet)
	mock.ExpectTxPipelineExec()
}

func TestRateLimiter_Allow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2, time.Minute, nil)
	ctx := t.Context()

	expectHit(mock, "k", 1, true)
	expectHit(mock, "k", 2, false)
	expectHit(mock, "k", 3, false)

	for _, want := range []bool{true, true, false} {
		ok, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_AllowSetsMissingWindow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 10, time.Minute, nil)

	// the counter survived without a TTL; the next hit must still set one
	expectHit(mock, "k", 5, true)

	ok, err := limiter.Allow(t.Context(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_MiddlewareBlocksOverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 1, time.Minute, nil)
	key := "ratelimit:bookings:203.0.113.7"

	expectHit(mock, key, 1, true)
	expectHit(mock, key, 2, false)

	e, _ := newEvent("Mozilla/5.0")
	require.NoError(t, limiter.Middleware("bookings")(e))

	e, _ = newEvent("Mozilla/5.0")
	err := limiter.Middleware("bookings")(e)
	assert.Equal(t, http.StatusTooManyRequests, apiStatus(t, err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 1, time.Minute, nil)

	mock.ExpectTxPipeline()
	mock.ExpectIncr("ratelimit:contacts:203.0.113.7").SetErr(errors.New("connection refused"))

	e, _ := newEvent("Mozilla/5.0")
	assert.NoError(t, limiter.Middleware("contacts")(e))
}

func TestAntiBot(t *testing.T) {
	tests := []struct {
		ua      string
		blocked bool
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", false},
		{"Googlebot/2.1", true},
		{"python-requests/2.31", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.ua, func(t *testing.T) {
			e, _ := newEvent(tt.ua)
			err := AntiBot(e)
			if tt.blocked {
				assert.Equal(t, http.StatusForbidden, apiStatus(t, err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	t.Run("assigns a new id", func(t *testing.T) {
		e, rec := newEvent("")
		require.NoError(t, RequestID(e))

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, GetRequestID(e))
	})

	t.Run("keeps a valid caller id", func(t *testing.T) {
		e, rec := newEvent("")
		e.Request.Header.Set(RequestIDHeader, "2f1d7c8e-4b52-4e0b-9a57-0d4f3a2c9b11")
		require.NoError(t, RequestID(e))
		assert.Equal(t, "2f1d7c8e-4b52-4e0b-9a57-0d4f3a2c9b11", rec.Header().Get(RequestIDHeader))
	})

	t.Run("replaces garbage", func(t *testing.T) {
		e, rec := newEvent("")
		e.Request.Header.Set(RequestIDHeader, "<script>")
		require.NoError(t, RequestID(e))
		assert.NotEqual(t, "<script>", rec.Header().Get(RequestIDHeader))
	})
}
