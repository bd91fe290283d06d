package qrcode

import (
	"bytes"
	"net/http"
	"reflect"

	"vms/backend/foundation/web"
)

type ScanRequest struct {
	Data string `json:"qr_data" form:"qr_data"`
}

type Controller struct {
	vendor    Vendor
	scanner   Scanner
	generator Generator
}

func NewController(vendor Vendor, scanner Scanner, generator Generator) *Controller {
	return &Controller{vendor: vendor, scanner: scanner, generator: generator}
}

func (uc Controller) GetMine(c *web.Context) error {
	response, err := uc.vendor.MyQRCode(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetByVendorId(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.vendor.QRCode(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Scan(c *web.Context) error {
	var request ScanRequest

	if err := c.BindFunc(&request, "Data"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.scanner.Scan(c.Ctx, request.Data)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Backfill(c *web.Context) error {
	response, err := uc.generator.Backfill(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Sheet(c *web.Context) error {
	var buf bytes.Buffer
	if err := uc.generator.WriteSheet(c.Ctx, &buf); err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", `attachment; filename="vendor-qr-codes.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	return nil
}
