package entity

import (
	"time"

	"github.com/uptrace/bun"
)

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "PENDING"
	StatusVerified VerificationStatus = "VERIFIED"
	StatusRejected VerificationStatus = "REJECTED"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

type Vendor struct {
	bun.BaseModel `bun:"table:vendors,alias:vendor"`

	BasicEntity
	UserID             int                `json:"user_id"             bun:"user_id"`
	PhoneNumber        *string            `json:"phone_number"        bun:"phone_number"`
	CompanyName        *string            `json:"company_name"        bun:"company_name"`
	OfficeAddress      *string            `json:"office_address"      bun:"office_address"`
	GSTIN              *string            `json:"gstin"               bun:"gstin"`
	VerificationStatus VerificationStatus `json:"verification_status" bun:"verification_status"`
	VendorUID          *string            `json:"vendor_uid"          bun:"vendor_uid"`
	Dob                *string            `json:"dob"                 bun:"dob"`
	Gender             *string            `json:"gender"              bun:"gender"`
	LogoURL            *string            `json:"logo_url"            bun:"logo_url"`
	QRCodeData         *string            `json:"qr_code_data"        bun:"qr_code_data"`
	QRCodeImageURL     *string            `json:"qr_code_image_url"   bun:"qr_code_image_url"`
	QRCodeGeneratedAt  *time.Time         `json:"qr_code_generated_at" bun:"qr_code_generated_at"`

	Owner *User `json:"owner,omitempty" bun:"rel:belongs-to,join:user_id=id"`
}

// OwnerName is the linked user's full name, or "" when the user or the name
// is missing.
func (v Vendor) OwnerName() string {
	if v.Owner == nil || v.Owner.FullName == nil {
		return ""
	}
	return *v.Owner.FullName
}

func (v Vendor) IsVerified() bool {
	return v.VerificationStatus == StatusVerified
}

func (v Vendor) HasQRCode() bool {
	return v.QRCodeImageURL != nil && *v.QRCodeImageURL != ""
}
