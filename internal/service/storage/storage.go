// Package storage uploads files to object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"vms/backend/foundation/web"
)

// Object storage folders.
const (
	FolderSelfies   = "selfies"
	FolderDocuments = "documents"
)

// MaxImageEdge is the longest side, in pixels, an uploaded photo is scaled to.
const MaxImageEdge = 1280

var (
	ImageTypes    = []string{"image/jpeg", "image/png"}
	DocumentTypes = []string{"image/jpeg", "image/png", "application/pdf"}
)

// Uploader stores r under folder/filename and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder, filename string) (string, error)
}

func InArray[T comparable](val T, array []T) bool {
	for _, v := range array {
		if val == v {
			return true
		}
	}
	return false
}

// UploadFile checks the content type of file and uploads it under a random
// name that keeps the original extension.
func UploadFile(ctx context.Context, up Uploader, file *multipart.FileHeader, folder string, allowed []string) (string, error) {
	if err := checkFile(file, allowed); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", web.NewRequestError(errors.Wrap(err, "opening upload"), http.StatusBadRequest)
	}
	defer closeFile(src)

	return up.Upload(ctx, src, folder, objectName(filepath.Ext(file.Filename)))
}

// UploadImage is UploadFile for photos; images larger than MaxImageEdge are
// scaled down and re-encoded as JPEG first.
func UploadImage(ctx context.Context, up Uploader, file *multipart.FileHeader, folder string) (string, error) {
	if err := checkFile(file, ImageTypes); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", web.NewRequestError(errors.Wrap(err, "opening upload"), http.StatusBadRequest)
	}
	defer closeFile(src)

	data, ext, err := Downscale(src, MaxImageEdge)
	if err != nil {
		return "", web.NewRequestError(err, http.StatusBadRequest)
	}
	if ext == "" {
		ext = filepath.Ext(file.Filename)
	}

	return up.Upload(ctx, bytes.NewReader(data), folder, objectName(ext))
}

func checkFile(file *multipart.FileHeader, allowed []string) error {
	if file == nil {
		return web.NewRequestError(errors.New("file is required"), http.StatusBadRequest)
	}

	contentType := strings.TrimSpace(strings.Split(file.Header.Get("Content-Type"), ";")[0])
	if !InArray(contentType, allowed) {
		return web.NewRequestError(fmt.Errorf("invalid file type, expected: %v, got: %s", allowed, contentType), http.StatusBadRequest)
	}
	return nil
}

func objectName(ext string) string {
	return uuid.NewString() + strings.ToLower(ext)
}

func closeFile(f multipart.File) {
	if err := f.Close(); err != nil {
		log.Warn().Err(err).Msg("closing upload")
	}
}
