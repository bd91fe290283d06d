package visit

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/entity"
	visitRepo "vms/backend/internal/repository/postgres/visit"
)

const exportSheet = "Visits"

var exportHeaders = []interface{}{
	"Visit ID", "Vendor ID", "Agent ID", "Purpose",
	"Check-in time", "Check-in latitude", "Check-in longitude", "Check-in location",
	"Check-out time", "Check-out latitude", "Check-out longitude", "Check-out location",
	"Area", "Pincode", "City", "State",
}

// Export writes the visits matching filter as an XLSX workbook. Admin only.
func (s *Service) Export(ctx context.Context, filter ListFilter, w io.Writer) error {
	claims, ok := auth.GetClaims(ctx)
	if !ok {
		return web.NewRequestError(errors.New("unauthorized"), http.StatusUnauthorized)
	}
	if !claims.Authorized(auth.RoleAdmin) {
		return web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	visits, _, err := s.visits.GetList(ctx, visitRepo.Filter{From: filter.From, To: filter.To})
	if err != nil {
		return err
	}

	f, err := buildWorkbook(visits)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "building visits workbook"), http.StatusInternalServerError)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return web.NewRequestError(errors.Wrap(err, "writing visits workbook"), http.StatusInternalServerError)
	}
	return nil
}

func buildWorkbook(visits []entity.Visit) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}

	for i, v := range visits {
		row := []interface{}{
			v.ID, v.VendorID, intValue(v.AgentID), stringValue(v.Purpose),
			v.CheckInTime.Format(time.RFC3339), v.CheckInLatitude, v.CheckInLongitude, stringValue(v.CheckInLocation),
			timeValue(v.CheckOutTime), floatValue(v.CheckOutLatitude), floatValue(v.CheckOutLongitude), stringValue(v.CheckOutLocation),
			stringValue(v.Area), stringValue(v.Pincode), stringValue(v.City), stringValue(v.State),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func stringValue(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(i *int) interface{} {
	if i == nil {
		return ""
	}
	return *i
}

func floatValue(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

func timeValue(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
