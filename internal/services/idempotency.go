package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travel-agency/internal/status"
	"travel-agency/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const pendingMarker = "pending"

// IdempotencyStore remembers which booking a submission key produced.
type IdempotencyStore struct {
	redis  redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{redis: client, ttl: ttl, prefix: "idempotency:booking:"}
}

// Reserve claims key. It returns the booking id of an earlier completed
// submission, or ErrSubmissionInFlight while that submission runs.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, error) {
	redisKey := s.prefix + key

	ok, err := s.redis.SetNX(ctx, redisKey, pendingMarker, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return "", nil
	}

	existing, err := s.redis.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) || existing == pendingMarker {
		return "", status.ErrSubmissionInFlight
	}
	if err != nil {
		return "", fmt.Errorf("read idempotency key: %w", err)
	}
	return existing, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, bookingID string) error {
	return s.redis.Set(ctx, s.prefix+key, bookingID, s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.redis.Del(ctx, s.prefix+key).Err()
}

// Fingerprint derives a submission key from the normalized request, used
// when the client sends no Idempotency-Key header.
func Fingerprint(req models.BookingRequest) string {
	fields := []string{
		strings.ToLower(req.Name),
		strings.ToLower(req.Email),
		req.Phone,
		req.Date,
		strconv.Itoa(req.Persons),
		req.PackageID,
		strings.ToLower(req.PackageLabel),
		req.Message,
	}
	sum := blake2b.Sum256([]byte(strings.Join(fields, "\x1f")))
	return "fp-" + hex.EncodeToString(sum[:])
}
