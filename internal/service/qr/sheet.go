package qr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"

	"vms/backend/foundation/web"
	"vms/backend/internal/entity"
)

const (
	sheetColumns = 2
	sheetCellW   = 90.0
	sheetCellH   = 110.0
	sheetImage   = 70.0
	sheetMargin  = 15.0
)

// WriteSheet writes a printable A4 PDF with the QR code of every verified
// vendor. Codes are rendered from the stored payload, or from the current
// vendor state when none is stored yet.
func (g *Generator) WriteSheet(ctx context.Context, w io.Writer) error {
	if g.renderer == nil {
		return web.NewRequestError(ErrRendererUnavailable, http.StatusServiceUnavailable)
	}

	vendors, err := g.store.ListVerified(ctx)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(sheetMargin, sheetMargin, sheetMargin)
	pdf.SetAutoPageBreak(false, sheetMargin)
	pdf.SetFont("Arial", "", 10)

	perPage := sheetColumns * 2
	for i, vendor := range vendors {
		if i%perPage == 0 {
			pdf.AddPage()
		}

		png, err := g.renderVendor(vendor)
		if err != nil {
			return web.NewRequestError(errors.Wrapf(err, "rendering qr for vendor %d", vendor.ID), http.StatusServiceUnavailable)
		}

		slot := i % perPage
		x := sheetMargin + float64(slot%sheetColumns)*sheetCellW
		y := sheetMargin + float64(slot/sheetColumns)*sheetCellH

		name := fmt.Sprintf("vendor-%d", vendor.ID)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		pdf.ImageOptions(name, x+(sheetCellW-sheetImage)/2, y, sheetImage, sheetImage, false, opts, 0, "")

		pdf.SetXY(x, y+sheetImage+4)
		pdf.CellFormat(sheetCellW, 6, pdf.UnicodeTranslatorFromDescriptor("")(label(vendor)), "", 2, "C", false, 0, "")
		pdf.CellFormat(sheetCellW, 6, fmt.Sprintf("ID %d", vendor.ID), "", 0, "C", false, 0, "")

		if pdf.Err() {
			return web.NewRequestError(errors.Wrap(pdf.Error(), "building qr sheet"), http.StatusInternalServerError)
		}
	}

	if len(vendors) == 0 {
		pdf.AddPage()
		pdf.CellFormat(0, 10, "No verified vendors", "", 0, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return web.NewRequestError(errors.Wrap(err, "writing qr sheet"), http.StatusInternalServerError)
	}
	return nil
}

func (g *Generator) renderVendor(vendor entity.Vendor) ([]byte, error) {
	data := deref(vendor.QRCodeData)
	if data == "" {
		var err error
		if data, err = NewPayload(vendor).Encode(); err != nil {
			return nil, err
		}
	}
	return g.renderer.Render(data)
}

func label(vendor entity.Vendor) string {
	if name := deref(vendor.CompanyName); name != "" {
		return name
	}
	return vendor.OwnerName()
}
