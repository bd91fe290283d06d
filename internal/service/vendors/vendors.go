// Package vendors manages vendor profiles, their verification and their QR
// codes.
package vendors

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/entity"
	vendorRepo "vms/backend/internal/repository/postgres/vendors"
	"vms/backend/internal/service/qr"
)

type Store interface {
	GetById(ctx context.Context, id int) (entity.Vendor, error)
	GetByUserId(ctx context.Context, userID int) (entity.Vendor, error)
	GetList(ctx context.Context, filter vendorRepo.Filter) ([]entity.Vendor, int, error)
	UpdateProfile(ctx context.Context, vendor entity.Vendor, request vendorRepo.UpdateRequest) error
	UpdateStatus(ctx context.Context, id int, status entity.VerificationStatus) error
}

type QRCodes interface {
	Get(ctx context.Context, vendorID int) (qr.Result, error)
	RegenerateBestEffort(ctx context.Context, vendorID int)
}

type Service struct {
	vendors Store
	qr      QRCodes
}

func NewService(vendors Store, codes QRCodes) *Service {
	return &Service{vendors: vendors, qr: codes}
}

// Me returns the vendor profile of the caller.
func (s *Service) Me(ctx context.Context) (entity.Vendor, error) {
	claims, err := claimsOf(ctx, auth.RoleVendor)
	if err != nil {
		return entity.Vendor{}, err
	}
	return s.vendors.GetByUserId(ctx, claims.UserId)
}

// UpdateMe edits the caller's profile. When a field embedded in the QR code
// changes, a verified vendor's code is regenerated; that step never fails
// the update.
func (s *Service) UpdateMe(ctx context.Context, request vendorRepo.UpdateRequest) (entity.Vendor, error) {
	current, err := s.Me(ctx)
	if err != nil {
		return entity.Vendor{}, err
	}

	request = trimmed(request)
	if request.CompanyName != nil && *request.CompanyName == "" {
		return entity.Vendor{}, web.NewRequestError(errors.New("company_name cannot be empty"), http.StatusBadRequest)
	}

	changed := changedFields(current, request)
	if err := s.vendors.UpdateProfile(ctx, current, request); err != nil {
		return entity.Vendor{}, err
	}

	updated, err := s.vendors.GetById(ctx, current.ID)
	if err != nil {
		return entity.Vendor{}, err
	}

	if updated.IsVerified() && qr.ShouldRegenerate(updated, changed...) {
		s.qr.RegenerateBestEffort(ctx, updated.ID)
		if fresh, err := s.vendors.GetById(ctx, updated.ID); err == nil {
			updated = fresh
		}
	}

	return updated, nil
}

func (s *Service) GetList(ctx context.Context, filter vendorRepo.Filter) ([]entity.Vendor, int, error) {
	if _, err := claimsOf(ctx, auth.RoleAdmin); err != nil {
		return nil, 0, err
	}
	return s.vendors.GetList(ctx, filter)
}

// SetStatus changes a vendor's verification status. A vendor that becomes
// VERIFIED gets its QR code generated on a best-effort basis.
func (s *Service) SetStatus(ctx context.Context, id int, status entity.VerificationStatus) (entity.Vendor, error) {
	if _, err := claimsOf(ctx, auth.RoleAdmin); err != nil {
		return entity.Vendor{}, err
	}
	if !status.Valid() {
		return entity.Vendor{}, web.NewRequestError(errors.Errorf("invalid verification status %q", status), http.StatusBadRequest)
	}

	before, err := s.vendors.GetById(ctx, id)
	if err != nil {
		return entity.Vendor{}, err
	}

	if err := s.vendors.UpdateStatus(ctx, id, status); err != nil {
		return entity.Vendor{}, err
	}
	log.Info().Int("vendor_id", id).Str("from", string(before.VerificationStatus)).Str("to", string(status)).Msg("vendor status changed")

	if status == entity.StatusVerified && !before.IsVerified() {
		s.qr.RegenerateBestEffort(ctx, id)
	}

	return s.vendors.GetById(ctx, id)
}

// MyQRCode returns the caller's QR code, generating it on first access.
func (s *Service) MyQRCode(ctx context.Context) (qr.Result, error) {
	vendor, err := s.Me(ctx)
	if err != nil {
		return qr.Result{}, err
	}
	return s.qr.Get(ctx, vendor.ID)
}

// QRCode returns any vendor's QR code. Admin only.
func (s *Service) QRCode(ctx context.Context, id int) (qr.Result, error) {
	if _, err := claimsOf(ctx, auth.RoleAdmin); err != nil {
		return qr.Result{}, err
	}
	return s.qr.Get(ctx, id)
}

func claimsOf(ctx context.Context, roles ...string) (auth.Claims, error) {
	claims, ok := auth.GetClaims(ctx)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("unauthorized"), http.StatusUnauthorized)
	}
	if len(roles) > 0 && !claims.Authorized(roles...) {
		return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}
	return claims, nil
}

func trimmed(request vendorRepo.UpdateRequest) vendorRepo.UpdateRequest {
	for _, field := range []**string{
		&request.CompanyName, &request.GSTIN, &request.OfficeAddress,
		&request.PhoneNumber, &request.Dob, &request.Gender, &request.FullName,
	} {
		if *field != nil {
			v := strings.TrimSpace(**field)
			*field = &v
		}
	}
	return request
}

// changedFields names the QR-relevant fields whose value differs from the
// current profile.
func changedFields(current entity.Vendor, request vendorRepo.UpdateRequest) []string {
	var changed []string
	if differs(current.CompanyName, request.CompanyName) {
		changed = append(changed, qr.FieldCompanyName)
	}
	if differs(current.GSTIN, request.GSTIN) {
		changed = append(changed, qr.FieldGSTIN)
	}
	if request.FullName != nil && current.OwnerName() != *request.FullName {
		changed = append(changed, qr.FieldOwnerName)
	}
	return changed
}

func differs(current, next *string) bool {
	if next == nil {
		return false
	}
	return current == nil || *current != *next
}
