package visit

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"vms/backend/foundation/web"
	"vms/backend/internal/entity"
	"vms/backend/internal/pkg/repository/postgresql"
	"vms/backend/internal/repository/postgres"
	"vms/backend/internal/service/geofence"
)

var ErrAlreadyCheckedOut = errors.New("visit is already checked out")

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) Create(ctx context.Context, visit *entity.Visit) error {
	_, err := r.NewInsert().Model(visit).Returning("*").Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "creating visit"), http.StatusInternalServerError)
	}

	return nil
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Visit, error) {
	var detail entity.Visit

	err := r.NewSelect().Model(&detail).Where("id = ?", id).Scan(ctx)

	return detail, postgres.Wrap(err, "visit")
}

// Checkout writes the check-out columns of an open visit. A visit that was
// already checked out is left untouched.
func (r Repository) Checkout(ctx context.Context, id int, request CheckoutRequest) (entity.Visit, error) {
	var detail entity.Visit

	res, err := r.NewUpdate().
		Model(&detail).
		Set("check_out_time = ?", request.Time).
		Set("check_out_latitude = ?", request.Latitude).
		Set("check_out_longitude = ?", request.Longitude).
		Set("check_out_location = ?", request.Location).
		Set("check_out_selfie_url = ?", request.SelfieURL).
		Where("id = ? AND check_out_time IS NULL", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return entity.Visit{}, web.NewRequestError(errors.Wrap(err, "checking out visit"), http.StatusInternalServerError)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.Visit{}, web.NewRequestError(ErrAlreadyCheckedOut, http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]entity.Visit, int, error) {
	var list []entity.Visit

	q := r.NewSelect().Model(&list).OrderExpr("check_in_time DESC, id DESC")
	applyFilter(q, filter)

	if filter.Limit != nil {
		q.Limit(*filter.Limit)
	}
	if filter.Offset != nil {
		q.Offset(*filter.Offset)
	}

	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting visits"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func applyFilter(q *bun.SelectQuery, filter Filter) {
	switch {
	case filter.OwnerID != nil && filter.CompanyName != nil:
		q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("vendor_id = ?", *filter.OwnerID).
				WhereOr("purpose ILIKE ? ESCAPE '\\'", purposePattern(*filter.CompanyName))
		})
	case filter.OwnerID != nil:
		q.Where("vendor_id = ?", *filter.OwnerID)
	case filter.CompanyName != nil:
		q.Where("purpose ILIKE ? ESCAPE '\\'", purposePattern(*filter.CompanyName))
	}

	if filter.From != nil {
		q.Where("check_in_time >= ?", filter.From.ToTime())
	}
	if filter.To != nil {
		q.Where("check_in_time < ?", filter.To.ToTime().AddDate(0, 0, 1))
	}
}

// purposePattern matches purposes composed for company, case-insensitively.
func purposePattern(company string) string {
	return postgres.EscapeLike(geofence.VisitingPrefix(company)) + "%"
}
