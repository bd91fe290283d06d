// Package otp issues the one-time codes used to confirm an email address.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// TTL is how long an issued code, and a successful verification, stay
	// valid.
	TTL = 10 * time.Minute

	PurposeRegister = "register"
	PurposeReset    = "reset"
)

func ValidPurpose(p string) bool {
	return p == PurposeRegister || p == PurposeReset
}

// Code returns a random 4-digit code.
func Code() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", errors.Wrap(err, "generating otp")
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// LogSender delivers codes to the service log. It stands in for a mail
// gateway in development.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, email, purpose, code string) error {
	log.Debug().Str("email", email).Str("purpose", purpose).Str("code", code).Msg("otp issued")
	return nil
}
