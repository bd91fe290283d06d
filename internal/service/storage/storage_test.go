package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms/backend/foundation/web"
)

type recordingUploader struct {
	calls  int
	folder string
	name   string
	body   []byte
	err    error
}

func (u *recordingUploader) Upload(ctx context.Context, r io.Reader, folder, filename string) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.folder, u.name, u.body = folder, filename, b
	return "https://cdn.example.com/" + folder + "/" + filename, nil
}

func fileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadFile(t *testing.T) {
	up := &recordingUploader{}
	fh := fileHeader(t, "License.PDF", "application/pdf", []byte("%PDF-1.4"))

	url, err := UploadFile(context.Background(), up, fh, FolderDocuments, DocumentTypes)
	require.NoError(t, err)
	assert.Equal(t, FolderDocuments, up.folder)
	assert.True(t, strings.HasSuffix(up.name, ".pdf"))
	assert.Equal(t, []byte("%PDF-1.4"), up.body)
	assert.Equal(t, "https://cdn.example.com/documents/"+up.name, url)
}

func TestUploadFileRejects(t *testing.T) {
	up := &recordingUploader{}

	_, err := UploadFile(context.Background(), up, nil, FolderDocuments, DocumentTypes)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))

	fh := fileHeader(t, "notes.txt", "text/plain", []byte("hello"))
	_, err = UploadFile(context.Background(), up, fh, FolderDocuments, DocumentTypes)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
	assert.Zero(t, up.calls)
}

func TestUploadImageKeepsSmallImages(t *testing.T) {
	up := &recordingUploader{}
	body := pngImage(t, 40, 30)
	fh := fileHeader(t, "selfie.png", "image/png", body)

	_, err := UploadImage(context.Background(), up, fh, FolderSelfies)
	require.NoError(t, err)
	assert.Equal(t, body, up.body)
	assert.True(t, strings.HasSuffix(up.name, ".png"))
}

func TestUploadImageDownscales(t *testing.T) {
	up := &recordingUploader{}
	fh := fileHeader(t, "selfie.png", "image/png", pngImage(t, 2000, 1000))

	_, err := UploadImage(context.Background(), up, fh, FolderSelfies)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(up.name, ".jpg"))

	img, err := jpeg.Decode(bytes.NewReader(up.body))
	require.NoError(t, err)
	assert.Equal(t, MaxImageEdge, img.Bounds().Dx())
	assert.Equal(t, MaxImageEdge/2, img.Bounds().Dy())
}

func TestUploadImageRejectsGarbage(t *testing.T) {
	up := &recordingUploader{}
	fh := fileHeader(t, "selfie.jpg", "image/jpeg", []byte("definitely not a jpeg"))

	_, err := UploadImage(context.Background(), up, fh, FolderSelfies)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
	assert.Zero(t, up.calls)
}

func TestScaled(t *testing.T) {
	w, h := scaled(1000, 3000, 300)
	assert.Equal(t, 100, w)
	assert.Equal(t, 300, h)

	w, h = scaled(5000, 1, 100)
	assert.Equal(t, 100, w)
	assert.Equal(t, 1, h)
}

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	local := NewLocal(dir, "http://localhost:8080/")

	url, err := local.Upload(context.Background(), strings.NewReader("qr"), "qr_codes", "vendor-7.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/qr_codes/vendor-7.png", url)

	got, err := os.ReadFile(filepath.Join(dir, "qr_codes", "vendor-7.png"))
	require.NoError(t, err)
	assert.Equal(t, "qr", string(got))
}

func TestLocalUploadStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	local := NewLocal(dir, "")

	url, err := local.Upload(context.Background(), strings.NewReader("x"), "../../etc", "../passwd")
	require.NoError(t, err)
	assert.Equal(t, "/media/etc/passwd", url)
	assert.FileExists(t, filepath.Join(dir, "etc", "passwd"))
}

func TestBreaker(t *testing.T) {
	up := &recordingUploader{err: errors.New("timeout")}
	b := NewBreaker(up, BreakerConfig{Name: "test", ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := b.Upload(context.Background(), strings.NewReader("x"), FolderSelfies, "a.jpg")
		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, web.StatusOf(err))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Upload(context.Background(), strings.NewReader("x"), FolderSelfies, "a.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, web.StatusOf(err))
	assert.Equal(t, 2, up.calls)
}

func TestBreakerPassesThrough(t *testing.T) {
	up := &recordingUploader{}
	b := NewBreaker(up, BreakerConfig{})

	url, err := b.Upload(context.Background(), strings.NewReader("x"), FolderSelfies, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/selfies/a.jpg", url)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
