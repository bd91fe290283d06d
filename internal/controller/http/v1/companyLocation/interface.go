package companyLocation

import (
	"context"

	"vms/backend/internal/entity"
	"vms/backend/internal/repository/postgres/companyLocation"
)

type CompanyLocation interface {
	GetList(ctx context.Context, filter companyLocation.Filter) ([]entity.CompanyLocation, int, error)
}

type Detector interface {
	Detect(ctx context.Context, lat, lon float64) (*entity.CompanyLocation, float64, error)
	Threshold() float64
}
