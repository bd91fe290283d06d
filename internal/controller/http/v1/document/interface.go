package document

import (
	"context"

	"vms/backend/internal/entity"
	"vms/backend/internal/service/document"
)

type Document interface {
	Upload(ctx context.Context, request document.UploadRequest) (entity.Document, error)
	List(ctx context.Context) ([]entity.Document, error)
}
