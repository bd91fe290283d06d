package document

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
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// Replace stores document as the vendor's only document of its type. A LOGO
// document also becomes the vendor's logo.
func (r Repository) Replace(ctx context.Context, document *entity.Document) error {
	err := r.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*entity.Document)(nil)).
			Where("vendor_id = ? AND document_type = ?", document.VendorID, document.DocumentType).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "removing previous document")
		}

		if _, err := tx.NewInsert().Model(document).Returning("id, uploaded_at").Exec(ctx); err != nil {
			return errors.Wrap(err, "creating document")
		}

		if document.DocumentType == entity.DocumentTypeLogo {
			_, err := tx.NewUpdate().Table("vendors").
				Set("logo_url = ?", document.FileURL).
				Set("updated_at = ?", time.Now()).
				Where("id = ?", document.VendorID).
				Exec(ctx)
			if err != nil {
				return errors.Wrap(err, "updating vendor logo")
			}
		}
		return nil
	})
	if err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return nil
}

func (r Repository) GetList(ctx context.Context, vendorID int) ([]entity.Document, error) {
	list := make([]entity.Document, 0)

	err := r.NewSelect().Model(&list).Where("vendor_id = ?", vendorID).OrderExpr("uploaded_at DESC").Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting documents"), http.StatusInternalServerError)
	}

	return list, nil
}
