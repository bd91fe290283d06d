package vendors

import "vms/backend/internal/entity"

type Filter struct {
	Limit  *int
	Offset *int
	Search *string
	Status *entity.VerificationStatus
}

// UpdateRequest is a partial profile update; nil fields are left unchanged.
type UpdateRequest struct {
	CompanyName   *string `json:"company_name"   form:"company_name"`
	GSTIN         *string `json:"gstin"          form:"gstin"`
	OfficeAddress *string `json:"office_address" form:"office_address"`
	PhoneNumber   *string `json:"phone_number"   form:"phone_number"`
	Dob           *string `json:"dob"            form:"dob"`
	Gender        *string `json:"gender"         form:"gender"`
	FullName      *string `json:"full_name"      form:"full_name"`
}

type StatusRequest struct {
	Status entity.VerificationStatus `json:"status" form:"status"`
}
