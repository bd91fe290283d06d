package visit

import (
	"bytes"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"

	"vms/backend/foundation/web"
	"vms/backend/internal/service/visit"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Controller struct {
	visit Visit
}

func NewController(visit Visit) *Controller {
	return &Controller{visit}
}

func (uc Controller) CheckIn(c *web.Context) error {
	var request visit.CheckInRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.visit.CheckIn(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusCreated)
}

func (uc Controller) CheckOut(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request visit.CheckOutRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.visit.CheckOut(c.Ctx, id, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetList(c *web.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.visit.List(c.Ctx, filter)
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

func (uc Controller) Export(c *web.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	var buf bytes.Buffer
	if err := uc.visit.Export(c.Ctx, filter, &buf); err != nil {
		return c.RespondError(err)
	}

	filename := fmt.Sprintf("visits-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	return nil
}

func listFilter(c *web.Context) (visit.ListFilter, error) {
	var filter visit.ListFilter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if err := c.ValidQuery(); err != nil {
		return visit.ListFilter{}, err
	}

	for name, dst := range map[string]**date.Date{"from": &filter.From, "to": &filter.To} {
		raw, ok := c.GetQueryFunc(reflect.String, name).(*string)
		if !ok || raw == nil {
			continue
		}
		d, err := date.ParseDate(*raw)
		if err != nil {
			return visit.ListFilter{}, web.NewRequestError(errors.Wrapf(err, "invalid %s date", name), http.StatusBadRequest)
		}
		*dst = &d
	}

	return filter, nil
}
