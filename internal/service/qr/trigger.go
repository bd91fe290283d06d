package qr

import "vms/backend/internal/entity"

// Fields whose change invalidates an existing QR code.
const (
	FieldCompanyName = "company_name"
	FieldGSTIN       = "gstin"
	FieldOwnerName   = "full_name"
)

// ShouldRegenerate reports whether vendor needs a new QR code after the
// named fields changed.
func ShouldRegenerate(vendor entity.Vendor, changed ...string) bool {
	for _, field := range changed {
		switch field {
		case FieldCompanyName, FieldGSTIN:
			return true
		case FieldOwnerName:
			if vendor.Owner != nil {
				return true
			}
		}
	}
	return !vendor.HasQRCode()
}
