package vendors

import (
	"context"

	"vms/backend/internal/entity"
	vendorRepo "vms/backend/internal/repository/postgres/vendors"
)

type Vendor interface {
	Me(ctx context.Context) (entity.Vendor, error)
	UpdateMe(ctx context.Context, request vendorRepo.UpdateRequest) (entity.Vendor, error)
	GetList(ctx context.Context, filter vendorRepo.Filter) ([]entity.Vendor, int, error)
	SetStatus(ctx context.Context, id int, status entity.VerificationStatus) (entity.Vendor, error)
}
