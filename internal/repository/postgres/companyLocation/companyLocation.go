package companyLocation

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

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

// List returns every location ordered by id. Detection relies on this order
// to break distance ties.
func (r Repository) List(ctx context.Context) ([]entity.CompanyLocation, error) {
	var list []entity.CompanyLocation

	err := r.NewSelect().Model(&list).OrderExpr("id ASC").Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting company locations"), http.StatusInternalServerError)
	}

	return list, nil
}

func (r Repository) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	exists, err := r.NewSelect().
		Model((*entity.CompanyLocation)(nil)).
		Where("address = ?", address).
		Exists(ctx)
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "checking company address"), http.StatusInternalServerError)
	}

	return exists, nil
}

func (r Repository) Create(ctx context.Context, location *entity.CompanyLocation) error {
	_, err := r.NewInsert().Model(location).Returning("id, created_at").Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "creating company location"), http.StatusInternalServerError)
	}

	return nil
}

func (r Repository) GetById(ctx context.Context, id int) (entity.CompanyLocation, error) {
	var detail entity.CompanyLocation

	err := r.NewSelect().Model(&detail).Where("id = ?", id).Scan(ctx)

	return detail, postgres.Wrap(err, "company location")
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]entity.CompanyLocation, int, error) {
	if _, err := r.CheckClaims(ctx, auth.RoleAdmin); err != nil {
		return nil, 0, err
	}

	var list []entity.CompanyLocation

	q := r.NewSelect().Model(&list).OrderExpr("id ASC")
	if filter.Search != nil {
		q.Where("company_name ILIKE ? ESCAPE '\\'", "%"+postgres.EscapeLike(*filter.Search)+"%")
	}
	if filter.Limit != nil {
		q.Limit(*filter.Limit)
	}
	if filter.Offset != nil {
		q.Offset(*filter.Offset)
	}

	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting company locations"), http.StatusInternalServerError)
	}

	return list, count, nil
}
