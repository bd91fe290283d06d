package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const otpPrefix = "vms:otp:"

// MaxOTPAttempts is how many wrong codes a pending code survives.
const MaxOTPAttempts = 5

// OTPStore keeps one pending code per purpose and identifier. Requesting a
// new code replaces the old one.
type OTPStore struct {
	rdb redis.Cmdable
}

func NewOTPStore(rdb redis.Cmdable) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func codeKey(purpose, identifier string) string {
	return otpPrefix + purpose + ":" + identifier
}

func attemptsKey(purpose, identifier string) string {
	return otpPrefix + "attempts:" + purpose + ":" + identifier
}

func verifiedKey(purpose, identifier string) string {
	return otpPrefix + "verified:" + purpose + ":" + identifier
}

func (s *OTPStore) Save(ctx context.Context, purpose, identifier, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, codeKey(purpose, identifier), code, ttl).Err(); err != nil {
		return errors.Wrap(err, "saving otp")
	}
	if err := s.rdb.Del(ctx, attemptsKey(purpose, identifier)).Err(); err != nil {
		return errors.Wrap(err, "resetting otp attempts")
	}
	return nil
}

// Verify consumes the pending code when it matches and records the
// identifier as verified for ttl. A wrong code counts as an attempt; after
// MaxOTPAttempts of them the pending code is dropped.
func (s *OTPStore) Verify(ctx context.Context, purpose, identifier, code string, ttl time.Duration) (bool, error) {
	stored, err := s.rdb.Get(ctx, codeKey(purpose, identifier)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "reading otp")
	}
	if stored != code {
		return false, s.miss(ctx, purpose, identifier, ttl)
	}

	if err := s.rdb.Del(ctx, codeKey(purpose, identifier), attemptsKey(purpose, identifier)).Err(); err != nil {
		return false, errors.Wrap(err, "consuming otp")
	}
	if err := s.rdb.Set(ctx, verifiedKey(purpose, identifier), "1", ttl).Err(); err != nil {
		return false, errors.Wrap(err, "marking otp verified")
	}
	return true, nil
}

// ConsumeVerified reports whether identifier passed Verify and clears the
// mark so it can be used once.
func (s *OTPStore) ConsumeVerified(ctx context.Context, purpose, identifier string) (bool, error) {
	n, err := s.rdb.Del(ctx, verifiedKey(purpose, identifier)).Result()
	if err != nil {
		return false, errors.Wrap(err, "consuming otp verification")
	}
	return n == 1, nil
}

func (s *OTPStore) miss(ctx context.Context, purpose, identifier string, ttl time.Duration) error {
	key := attemptsKey(purpose, identifier)

	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return errors.Wrap(err, "counting otp attempts")
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return errors.Wrap(err, "expiring otp attempts")
		}
	}
	if n >= MaxOTPAttempts {
		if err := s.rdb.Del(ctx, codeKey(purpose, identifier), key).Err(); err != nil {
			return errors.Wrap(err, "dropping otp")
		}
	}
	return nil
}
