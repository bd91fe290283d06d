package qr

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"vms/backend/foundation/web"
	"vms/backend/internal/entity"
	"vms/backend/internal/pkg/metrics"
	"vms/backend/internal/repository/postgres"
)

type VendorFinder interface {
	GetById(ctx context.Context, id int) (entity.Vendor, error)
}

type ScanResult struct {
	CompanyID        int     `json:"company_id"`
	CompanyName      *string `json:"company_name"`
	GSTNNumber       *string `json:"GSTN_number"`
	CompanyOwnerName *string `json:"company_owner_name"`
	IsVerified       bool    `json:"is_verified"`
	Valid            bool    `json:"valid"`
}

type Verifier struct {
	vendors VendorFinder
}

func NewVerifier(vendors VendorFinder) *Verifier {
	return &Verifier{vendors: vendors}
}

// Scan decodes raw and checks it against the vendor it names. A code is
// valid only when company name, GSTN number and owner name all still match.
func (v *Verifier) Scan(ctx context.Context, raw string) (ScanResult, error) {
	scanned, err := Decode(raw)
	if err != nil {
		return ScanResult{}, web.NewRequestError(err, http.StatusBadRequest)
	}

	vendor, err := v.vendors.GetById(ctx, scanned.CompanyID)
	if errors.Is(err, postgres.ErrNotFound) {
		metrics.QRScans.WithLabelValues("false").Inc()
		return ScanResult{
			CompanyID:        scanned.CompanyID,
			CompanyName:      scanned.CompanyName,
			GSTNNumber:       scanned.GSTNNumber,
			CompanyOwnerName: scanned.CompanyOwnerName,
		}, nil
	}
	if err != nil {
		return ScanResult{}, err
	}

	live := NewPayload(vendor)
	res := ScanResult{
		CompanyID:        vendor.ID,
		CompanyName:      &live.CompanyName,
		GSTNNumber:       &live.GSTNNumber,
		CompanyOwnerName: &live.CompanyOwnerName,
		IsVerified:       vendor.IsVerified(),
		Valid: matches(scanned.CompanyName, live.CompanyName) &&
			matches(scanned.GSTNNumber, live.GSTNNumber) &&
			matches(scanned.CompanyOwnerName, live.CompanyOwnerName),
	}

	metrics.QRScans.WithLabelValues(strconv.FormatBool(res.Valid)).Inc()
	return res, nil
}

func matches(scanned *string, live string) bool {
	return scanned != nil && *scanned == live
}
