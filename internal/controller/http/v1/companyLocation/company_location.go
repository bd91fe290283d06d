package companyLocation

import (
	"net/http"
	"reflect"

	"github.com/pkg/errors"

	"vms/backend/foundation/web"
	"vms/backend/internal/repository/postgres/companyLocation"
)

type Controller struct {
	companyLocation CompanyLocation
	detector        Detector
}

func NewController(companyLocation CompanyLocation, detector Detector) *Controller {
	return &Controller{companyLocation: companyLocation, detector: detector}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter companyLocation.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.companyLocation.GetList(c.Ctx, filter)
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

// Detect previews which known company a check-in at lat/lon would be
// attributed to.
func (uc Controller) Detect(c *web.Context) error {
	lat, _ := c.GetQueryFunc(reflect.Float64, "lat").(*float64)
	lon, _ := c.GetQueryFunc(reflect.Float64, "lon").(*float64)
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}
	if lat == nil || lon == nil {
		return c.RespondError(web.NewRequestError(errors.New("lat and lon are required"), http.StatusBadRequest))
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return c.RespondError(web.NewRequestError(errors.New("coordinates are out of range"), http.StatusBadRequest))
	}

	location, distance, err := uc.detector.Detect(c.Ctx, *lat, *lon)
	if err != nil {
		return c.RespondError(err)
	}

	data := map[string]interface{}{
		"detected":         location != nil,
		"threshold_meters": uc.detector.Threshold(),
	}
	if location != nil {
		data["company_location"] = location
		data["distance_meters"] = distance
	}

	return c.Respond(map[string]interface{}{
		"data":   data,
		"status": true,
	}, http.StatusOK)
}
