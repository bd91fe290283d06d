package agent

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"vms/backend/foundation/web"
	"vms/backend/internal/entity"
	"vms/backend/internal/pkg/repository/postgresql"
	"vms/backend/internal/repository/postgres"
)

// DefaultLimit caps agent lists when the caller gives no limit.
const DefaultLimit = 100

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]entity.Agent, int, error) {
	if _, err := r.CheckClaims(ctx); err != nil {
		return nil, 0, err
	}

	limit := DefaultLimit
	if filter.Limit != nil && *filter.Limit > 0 {
		limit = *filter.Limit
	}

	var list []entity.Agent

	q := r.NewSelect().Model(&list).OrderExpr("id ASC").Limit(limit)
	if filter.Offset != nil {
		q.Offset(*filter.Offset)
	}

	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting agents"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Agent, error) {
	var detail entity.Agent

	err := r.NewSelect().Model(&detail).Where("id = ?", id).Scan(ctx)

	return detail, postgres.Wrap(err, "agent")
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (entity.Agent, error) {
	if err := r.ValidateStruct(&request, "Name"); err != nil {
		return entity.Agent{}, err
	}
	if _, err := r.CheckClaims(ctx); err != nil {
		return entity.Agent{}, err
	}

	detail := entity.Agent{
		Name:       strings.TrimSpace(request.Name),
		Department: request.Department,
		Email:      request.Email,
		IsActive:   true,
	}

	if _, err := r.NewInsert().Model(&detail).Returning("id").Exec(ctx); err != nil {
		return entity.Agent{}, web.NewRequestError(errors.Wrap(err, "creating agent"), http.StatusInternalServerError)
	}

	return detail, nil
}
