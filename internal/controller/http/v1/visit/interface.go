package visit

import (
	"context"
	"io"

	"vms/backend/internal/entity"
	"vms/backend/internal/service/visit"
)

type Visit interface {
	CheckIn(ctx context.Context, request visit.CheckInRequest) (visit.CheckInResponse, error)
	CheckOut(ctx context.Context, id int, request visit.CheckOutRequest) (entity.Visit, error)
	List(ctx context.Context, filter visit.ListFilter) ([]entity.Visit, int, error)
	Export(ctx context.Context, filter visit.ListFilter, w io.Writer) error
}
