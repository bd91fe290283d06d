package storage

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"vms/backend/foundation/web"
	"vms/backend/internal/pkg/metrics"
)

var ErrUnavailable = errors.New("file storage is unavailable")

type BreakerConfig struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// Breaker stops calling the wrapped uploader after repeated failures. Every
// failure surfaces as a 503.
type Breaker struct {
	next Uploader
	cb   *gobreaker.CircuitBreaker
}

func NewBreaker(next Uploader, cfg BreakerConfig) *Breaker {
	if cfg.Name == "" {
		cfg.Name = "storage"
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	return &Breaker{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: 1,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("storage breaker state changed")
			},
		}),
	}
}

func (b *Breaker) Upload(ctx context.Context, r io.Reader, folder, filename string) (string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Upload(ctx, r, folder, filename)
	})
	metrics.Uploads.WithLabelValues(folder, metrics.Result(err)).Inc()

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", web.NewRequestError(ErrUnavailable, http.StatusServiceUnavailable)
	}
	if err != nil {
		log.Error().Err(err).Str("folder", folder).Msg("upload failed")
		return "", web.NewRequestError(errors.Wrap(ErrUnavailable, err.Error()), http.StatusServiceUnavailable)
	}
	return res.(string), nil
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
