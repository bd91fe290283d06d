package user

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/entity"
	"vms/backend/internal/pkg/repository/postgresql"
	"vms/backend/internal/repository/postgres"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("lower(email) = lower(?)", strings.TrimSpace(email)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, web.NewRequestError(errors.New("user not found"), http.StatusUnauthorized)
	}

	return detail, postgres.Wrap(err, "user")
}

func (r Repository) GetById(ctx context.Context, id int) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("id = ?", id).Scan(ctx)

	return detail, postgres.Wrap(err, "user")
}

// Register creates a vendor account: the user and its PENDING vendor profile.
func (r Repository) Register(ctx context.Context, request RegisterRequest) (RegisterResponse, error) {
	if err := r.ValidateStruct(&request, "Email", "HashedPassword", "FullName"); err != nil {
		return RegisterResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))

	exists, err := r.NewSelect().Model((*entity.User)(nil)).Where("lower(email) = ?", email).Exists(ctx)
	if err != nil {
		return RegisterResponse{}, web.NewRequestError(errors.Wrap(err, "checking email"), http.StatusInternalServerError)
	}
	if exists {
		return RegisterResponse{}, web.NewRequestError(errors.New("email is already registered"), http.StatusBadRequest)
	}

	fullName := strings.TrimSpace(request.FullName)
	user := entity.User{
		Email:       email,
		Password:    request.HashedPassword,
		FullName:    &fullName,
		PhoneNumber: request.PhoneNumber,
		Role:        auth.RoleVendor,
		IsActive:    true,
	}
	uid := "VND-" + strings.ToUpper(uuid.NewString()[:8])
	vendor := entity.Vendor{
		PhoneNumber:        request.PhoneNumber,
		CompanyName:        request.CompanyName,
		GSTIN:              request.GSTIN,
		OfficeAddress:      request.OfficeAddress,
		VerificationStatus: entity.StatusPending,
		VendorUID:          &uid,
	}

	err = r.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&user).Returning("id").Exec(ctx); err != nil {
			return errors.Wrap(err, "creating user")
		}
		vendor.UserID = user.ID
		if _, err := tx.NewInsert().Model(&vendor).Returning("id").Exec(ctx); err != nil {
			return errors.Wrap(err, "creating vendor")
		}
		return nil
	})
	if err != nil {
		return RegisterResponse{}, web.NewRequestError(err, http.StatusInternalServerError)
	}

	return RegisterResponse{
		UserID:    user.ID,
		VendorID:  vendor.ID,
		VendorUID: uid,
		Email:     email,
		Status:    string(vendor.VerificationStatus),
	}, nil
}

func (r Repository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	res, err := r.NewUpdate().Table("users").
		Set("hashed_password = ?", hashedPassword).
		Set("updated_at = ?", time.Now()).
		Where("lower(email) = lower(?)", strings.TrimSpace(email)).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating password"), http.StatusInternalServerError)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return postgres.NotFound("user")
	}

	return nil
}
