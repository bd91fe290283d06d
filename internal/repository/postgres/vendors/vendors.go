package vendors

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"vms/backend/foundation/web"
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

func (r Repository) GetById(ctx context.Context, id int) (entity.Vendor, error) {
	var detail entity.Vendor

	err := r.NewSelect().Model(&detail).Relation("Owner").Where("vendor.id = ?", id).Scan(ctx)

	return detail, postgres.Wrap(err, "vendor")
}

func (r Repository) GetByUserId(ctx context.Context, userID int) (entity.Vendor, error) {
	var detail entity.Vendor

	err := r.NewSelect().Model(&detail).Relation("Owner").Where("vendor.user_id = ?", userID).Scan(ctx)

	return detail, postgres.Wrap(err, "vendor")
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]entity.Vendor, int, error) {
	var list []entity.Vendor

	q := r.NewSelect().Model(&list).Relation("Owner").OrderExpr("vendor.id ASC")
	if filter.Status != nil {
		q.Where("vendor.verification_status = ?", *filter.Status)
	}
	if filter.Search != nil {
		pattern := "%" + postgres.EscapeLike(*filter.Search) + "%"
		q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("vendor.company_name ILIKE ? ESCAPE '\\'", pattern).
				WhereOr("vendor.gstin ILIKE ? ESCAPE '\\'", pattern)
		})
	}
	if filter.Limit != nil {
		q.Limit(*filter.Limit)
	}
	if filter.Offset != nil {
		q.Offset(*filter.Offset)
	}

	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting vendors"), http.StatusInternalServerError)
	}

	return list, count, nil
}

// UpdateProfile applies the non-nil fields of request to the vendor and its
// owner in one transaction.
func (r Repository) UpdateProfile(ctx context.Context, vendor entity.Vendor, request UpdateRequest) error {
	return r.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()

		q := tx.NewUpdate().Table("vendors").Where("id = ?", vendor.ID).Set("updated_at = ?", now)
		set := func(column string, value *string) {
			if value != nil {
				q.Set(column+" = ?", *value)
			}
		}
		set("company_name", request.CompanyName)
		set("gstin", request.GSTIN)
		set("office_address", request.OfficeAddress)
		set("phone_number", request.PhoneNumber)
		set("dob", request.Dob)
		set("gender", request.Gender)

		if _, err := q.Exec(ctx); err != nil {
			return web.NewRequestError(errors.Wrap(err, "updating vendor"), http.StatusInternalServerError)
		}

		if request.FullName != nil {
			_, err := tx.NewUpdate().Table("users").
				Set("full_name = ?", *request.FullName).
				Set("updated_at = ?", now).
				Where("id = ?", vendor.UserID).
				Exec(ctx)
			if err != nil {
				return web.NewRequestError(errors.Wrap(err, "updating vendor owner"), http.StatusInternalServerError)
			}
		}

		return nil
	})
}

func (r Repository) UpdateStatus(ctx context.Context, id int, status entity.VerificationStatus) error {
	res, err := r.NewUpdate().Table("vendors").
		Set("verification_status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating vendor status"), http.StatusInternalServerError)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return postgres.NotFound("vendor")
	}

	return nil
}

func (r Repository) SaveQRCode(ctx context.Context, id int, data, imageURL string, generatedAt time.Time) error {
	_, err := r.NewUpdate().Table("vendors").
		Set("qr_code_data = ?", data).
		Set("qr_code_image_url = ?", imageURL).
		Set("qr_code_generated_at = ?", generatedAt).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "saving vendor qr code"), http.StatusInternalServerError)
	}

	return nil
}

func (r Repository) ListVerified(ctx context.Context) ([]entity.Vendor, error) {
	return r.listVerified(ctx, false)
}

func (r Repository) ListVerifiedWithoutQRCode(ctx context.Context) ([]entity.Vendor, error) {
	return r.listVerified(ctx, true)
}

func (r Repository) listVerified(ctx context.Context, withoutQRCode bool) ([]entity.Vendor, error) {
	var list []entity.Vendor

	q := r.NewSelect().Model(&list).Relation("Owner").
		Where("vendor.verification_status = ?", entity.StatusVerified).
		OrderExpr("vendor.id ASC")
	if withoutQRCode {
		q.Where("(vendor.qr_code_image_url IS NULL OR vendor.qr_code_image_url = '')")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting verified vendors"), http.StatusInternalServerError)
	}

	return list, nil
}
