package vendors

import (
	"net/http"
	"reflect"
	"strings"

	"vms/backend/foundation/web"
	"vms/backend/internal/entity"
	vendorRepo "vms/backend/internal/repository/postgres/vendors"
)

type Controller struct {
	vendor Vendor
}

func NewController(vendor Vendor) *Controller {
	return &Controller{vendor}
}

func (uc Controller) GetMe(c *web.Context) error {
	response, err := uc.vendor.Me(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateMe(c *web.Context) error {
	var request vendorRepo.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.vendor.UpdateMe(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetList(c *web.Context) error {
	var filter vendorRepo.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok && status != nil {
		s := entity.VerificationStatus(strings.ToUpper(*status))
		filter.Status = &s
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.vendor.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) SetStatus(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request vendorRepo.StatusRequest
	if err := c.BindFunc(&request, "Status"); err != nil {
		return c.RespondError(err)
	}

	status := entity.VerificationStatus(strings.ToUpper(strings.TrimSpace(string(request.Status))))
	response, err := uc.vendor.SetStatus(c.Ctx, id, status)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}
