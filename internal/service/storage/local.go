package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MediaPrefix is the URL path local files are served under.
const MediaPrefix = "/media"

// Local writes files below a directory on disk. They are served by the
// router under MediaPrefix.
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

func (l *Local) Upload(ctx context.Context, r io.Reader, folder, filename string) (string, error) {
	folder = filepath.Base(filepath.Clean("/" + folder))
	filename = filepath.Base(filename)

	targetPath := filepath.Join(l.Dir, folder)
	if err := os.MkdirAll(targetPath, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "creating upload folder")
	}

	out, err := os.Create(filepath.Join(targetPath, filename))
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("file", filename).Msg("closing upload file")
		}
	}()

	if _, err := io.Copy(out, r); err != nil {
		return "", errors.Wrap(err, "writing upload file")
	}

	return l.BaseURL + path.Join(MediaPrefix, folder, filename), nil
}
