// Package geofence attributes check-ins to known company locations.
package geofence

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"vms/backend/internal/entity"
	"vms/backend/internal/pkg/metrics"
)

// DefaultThreshold is the detection radius in meters.
const DefaultThreshold = 300.0

type Store interface {
	List(ctx context.Context) ([]entity.CompanyLocation, error)
	ExistsByAddress(ctx context.Context, address string) (bool, error)
	Create(ctx context.Context, location *entity.CompanyLocation) error
}

// Locker serializes location creation per address. Lock returns a function
// that releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type Outcome string

const (
	OutcomeDetected   Outcome = "detected"
	OutcomeOverridden Outcome = "overridden"
	OutcomeKnown      Outcome = "known_address"
	OutcomeCreated    Outcome = "created"
	OutcomeNone       Outcome = "none"
)

type Request struct {
	Latitude    float64
	Longitude   float64
	CompanyName string
	Address     string
}

type Resolution struct {
	// Designation is the company the visit is attributed to; empty when none.
	Designation string
	Outcome     Outcome
	Detected    *entity.CompanyLocation
	Distance    float64
	Created     *entity.CompanyLocation
}

type Resolver struct {
	store     Store
	locker    Locker
	threshold float64
}

type Option func(*Resolver)

func WithThreshold(meters float64) Option {
	return func(r *Resolver) {
		if meters > 0 {
			r.threshold = meters
		}
	}
}

// WithLocker makes the duplicate-address check and the insert one critical
// section. Without it two concurrent check-ins with the same new address can
// both insert.
func WithLocker(l Locker) Option {
	return func(r *Resolver) { r.locker = l }
}

func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{store: store, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Detect returns the nearest location within the threshold, or nil. On equal
// distances the location listed first wins.
func (r *Resolver) Detect(ctx context.Context, lat, lon float64) (*entity.CompanyLocation, float64, error) {
	locations, err := r.store.List(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing company locations")
	}

	var nearest *entity.CompanyLocation
	minDist := 0.0
	for i := range locations {
		d := Distance(lat, lon, locations[i].Latitude, locations[i].Longitude)
		if d > r.threshold {
			continue
		}
		if nearest == nil || d < minDist {
			nearest = &locations[i]
			minDist = d
		}
	}

	return nearest, minDist, nil
}

// Resolve decides which company a check-in belongs to and registers a new
// location when the caller names a company nobody has recorded yet.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	name := Normalize(req.CompanyName)
	address := Normalize(req.Address)

	detected, dist, err := r.Detect(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return Resolution{}, err
	}

	if detected != nil {
		res := Resolution{
			Designation: detected.CompanyName,
			Outcome:     OutcomeDetected,
			Detected:    detected,
			Distance:    dist,
		}
		if name != "" {
			res.Designation = name
			res.Outcome = OutcomeOverridden
		}
		return res, nil
	}

	if name == "" {
		return Resolution{Outcome: OutcomeNone}, nil
	}

	if address != "" && r.locker != nil {
		unlock, err := r.locker.Lock(ctx, address)
		if err != nil {
			return Resolution{}, errors.Wrap(err, "locking company address")
		}
		defer unlock()
	}

	if address != "" {
		exists, err := r.store.ExistsByAddress(ctx, address)
		if err != nil {
			return Resolution{}, errors.Wrap(err, "checking company address")
		}
		if exists {
			return Resolution{Designation: name, Outcome: OutcomeKnown}, nil
		}
	}

	location := &entity.CompanyLocation{
		CompanyName: name,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if address != "" {
		location.Address = &address
	}

	if err := r.store.Create(ctx, location); err != nil {
		return Resolution{}, errors.Wrap(err, "creating company location")
	}
	metrics.LocationsCreated.Inc()

	log.Info().
		Int("location_id", location.ID).
		Str("company", name).
		Float64("lat", req.Latitude).
		Float64("lon", req.Longitude).
		Msg("registered company location")

	return Resolution{Designation: name, Outcome: OutcomeCreated, Created: location}, nil
}

// Normalize trims s and brings it to Unicode NFC so visually equal addresses
// compare equal.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
