// Package document stores the files vendors attach to their profile.
package document

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/entity"
	"vms/backend/internal/service/storage"
)

type Store interface {
	Replace(ctx context.Context, document *entity.Document) error
	GetList(ctx context.Context, vendorID int) ([]entity.Document, error)
}

type Vendors interface {
	GetByUserId(ctx context.Context, userID int) (entity.Vendor, error)
}

type UploadRequest struct {
	DocumentType string                `json:"document_type" form:"document_type"`
	File         *multipart.FileHeader `json:"-"             form:"file"`
}

type Service struct {
	documents Store
	vendors   Vendors
	uploader  storage.Uploader
}

func NewService(documents Store, vendors Vendors, uploader storage.Uploader) *Service {
	return &Service{documents: documents, vendors: vendors, uploader: uploader}
}

// Upload stores the file and makes it the caller's document of that type,
// replacing any earlier one.
func (s *Service) Upload(ctx context.Context, request UploadRequest) (entity.Document, error) {
	docType := strings.ToUpper(strings.TrimSpace(request.DocumentType))
	if docType == "" {
		return entity.Document{}, web.NewRequestError(errors.New("document_type is required"), http.StatusBadRequest)
	}

	vendor, err := s.vendor(ctx)
	if err != nil {
		return entity.Document{}, err
	}

	allowed := storage.DocumentTypes
	if docType == entity.DocumentTypeLogo {
		allowed = storage.ImageTypes
	}

	url, err := storage.UploadFile(ctx, s.uploader, request.File, storage.FolderDocuments, allowed)
	if err != nil {
		return entity.Document{}, err
	}

	document := entity.Document{
		VendorID:     vendor.ID,
		DocumentType: docType,
		FileURL:      url,
	}
	if err := s.documents.Replace(ctx, &document); err != nil {
		return entity.Document{}, err
	}

	return document, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Document, error) {
	vendor, err := s.vendor(ctx)
	if err != nil {
		return nil, err
	}
	return s.documents.GetList(ctx, vendor.ID)
}

func (s *Service) vendor(ctx context.Context) (entity.Vendor, error) {
	claims, ok := auth.GetClaims(ctx)
	if !ok {
		return entity.Vendor{}, web.NewRequestError(errors.New("unauthorized"), http.StatusUnauthorized)
	}
	if !claims.Authorized(auth.RoleVendor) {
		return entity.Vendor{}, web.NewRequestError(errors.New("only vendors have documents"), http.StatusForbidden)
	}
	return s.vendors.GetByUserId(ctx, claims.UserId)
}
