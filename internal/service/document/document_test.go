package document

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/entity"
	"vms/backend/internal/repository/postgres"
)

type memoryDocuments struct {
	docs []entity.Document
	logo string
}

func (m *memoryDocuments) Replace(ctx context.Context, document *entity.Document) error {
	kept := m.docs[:0]
	for _, d := range m.docs {
		if d.VendorID != document.VendorID || d.DocumentType != document.DocumentType {
			kept = append(kept, d)
		}
	}
	document.ID = len(m.docs) + 100
	m.docs = append(kept, *document)
	if document.DocumentType == entity.DocumentTypeLogo {
		m.logo = document.FileURL
	}
	return nil
}

func (m *memoryDocuments) GetList(ctx context.Context, vendorID int) ([]entity.Document, error) {
	var out []entity.Document
	for _, d := range m.docs {
		if d.VendorID == vendorID {
			out = append(out, d)
		}
	}
	return out, nil
}

type oneVendor struct{}

func (oneVendor) GetByUserId(ctx context.Context, userID int) (entity.Vendor, error) {
	if userID != 10 {
		return entity.Vendor{}, postgres.NotFound("vendor")
	}
	v := entity.Vendor{UserID: 10}
	v.ID = 7
	return v, nil
}

type urlUploader struct{}

func (urlUploader) Upload(ctx context.Context, r io.Reader, folder, filename string) (string, error) {
	return "https://cdn.example.com/" + folder + "/" + filename, nil
}

func upload(t *testing.T, contentType string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="doc.bin"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestUploadReplacesSameType(t *testing.T) {
	store := &memoryDocuments{}
	service := NewService(store, oneVendor{}, urlUploader{})
	ctx := context.WithValue(context.Background(), auth.Key, auth.Claims{UserId: 10, Role: auth.RoleVendor})

	first, err := service.Upload(ctx, UploadRequest{DocumentType: "gst_certificate", File: upload(t, "application/pdf")})
	require.NoError(t, err)
	assert.Equal(t, "GST_CERTIFICATE", first.DocumentType)

	second, err := service.Upload(ctx, UploadRequest{DocumentType: "GST_CERTIFICATE", File: upload(t, "application/pdf")})
	require.NoError(t, err)

	logo, err := service.Upload(ctx, UploadRequest{DocumentType: "logo", File: upload(t, "image/png")})
	require.NoError(t, err)

	list, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.FileURL, list[0].FileURL)
	assert.Equal(t, logo.FileURL, store.logo)
}

func TestUploadValidation(t *testing.T) {
	service := NewService(&memoryDocuments{}, oneVendor{}, urlUploader{})
	ctx := context.WithValue(context.Background(), auth.Key, auth.Claims{UserId: 10, Role: auth.RoleVendor})

	_, err := service.Upload(ctx, UploadRequest{DocumentType: " ", File: upload(t, "application/pdf")})
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))

	_, err = service.Upload(ctx, UploadRequest{DocumentType: "LOGO", File: upload(t, "application/pdf")})
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))

	_, err = service.Upload(ctx, UploadRequest{DocumentType: "PAN"})
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))

	admin := context.WithValue(context.Background(), auth.Key, auth.Claims{UserId: 1, Role: auth.RoleAdmin})
	_, err = service.List(admin)
	assert.Equal(t, http.StatusForbidden, web.StatusOf(err))
}
