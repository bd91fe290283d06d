package auth

import (
	"context"
	"time"

	"vms/backend/internal/entity"
	"vms/backend/internal/repository/postgres/user"
)

type User interface {
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	Register(ctx context.Context, request user.RegisterRequest) (user.RegisterResponse, error)
	UpdatePassword(ctx context.Context, email, hashedPassword string) error
}

type OTPStore interface {
	Save(ctx context.Context, purpose, identifier, code string, ttl time.Duration) error
	Verify(ctx context.Context, purpose, identifier, code string, ttl time.Duration) (bool, error)
	ConsumeVerified(ctx context.Context, purpose, identifier string) (bool, error)
}

type Sender interface {
	Send(ctx context.Context, email, purpose, code string) error
}
