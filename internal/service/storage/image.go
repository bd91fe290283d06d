package storage

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Downscale shrinks the image read from r so that its longest side is at
// most maxEdge pixels. Images already within bounds are returned unchanged
// with an empty extension; scaled ones are JPEG with ext ".jpg".
func Downscale(r io.Reader, maxEdge int) (data []byte, ext string, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading image")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", errors.Wrap(err, "unsupported image")
	}
	if cfg.Width <= maxEdge && cfg.Height <= maxEdge {
		return raw, "", nil
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", errors.Wrap(err, "decoding image")
	}

	w, h := scaled(cfg.Width, cfg.Height, maxEdge)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", errors.Wrap(err, "encoding image")
	}
	return buf.Bytes(), ".jpg", nil
}

func scaled(w, h, maxEdge int) (int, int) {
	if w >= h {
		nh := h * maxEdge / w
		if nh < 1 {
			nh = 1
		}
		return maxEdge, nh
	}
	nw := w * maxEdge / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxEdge
}
