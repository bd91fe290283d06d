package qr

import (
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

var ErrRendererUnavailable = errors.New("qr code rendering is unavailable")

// Renderer turns text into a PNG image.
type Renderer interface {
	Render(content string) ([]byte, error)
}

type PNGRenderer struct {
	Level      qrcode.RecoveryLevel
	ModuleSize int
}

// NewPNGRenderer uses low error correction, 10px modules and the standard
// 4-module quiet zone.
func NewPNGRenderer() PNGRenderer {
	return PNGRenderer{Level: qrcode.Low, ModuleSize: 10}
}

func (r PNGRenderer) Render(content string) ([]byte, error) {
	code, err := qrcode.New(content, r.Level)
	if err != nil {
		return nil, errors.Wrap(err, "building qr code")
	}
	code.DisableBorder = false

	// a negative size means pixels per module
	png, err := code.PNG(-r.ModuleSize)
	if err != nil {
		return nil, errors.Wrap(err, "rendering qr png")
	}
	return png, nil
}

// CheckRenderer renders a sample payload once. It returns r when rendering
// works and ErrRendererUnavailable otherwise; callers keep the result for the
// life of the process.
func CheckRenderer(r Renderer) (Renderer, error) {
	if r == nil {
		return nil, ErrRendererUnavailable
	}
	sample, err := (Payload{CompanyID: "0"}).Encode()
	if err != nil {
		return nil, errors.Wrap(ErrRendererUnavailable, err.Error())
	}
	if png, err := r.Render(sample); err != nil || len(png) == 0 {
		return nil, ErrRendererUnavailable
	}
	return r, nil
}
