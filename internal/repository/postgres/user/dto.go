package user

type SignInRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type RegisterRequest struct {
	Email         string  `json:"email"          form:"email"`
	Password      string  `json:"password"       form:"password"`
	FullName      string  `json:"full_name"      form:"full_name"`
	PhoneNumber   *string `json:"phone_number"   form:"phone_number"`
	CompanyName   *string `json:"company_name"   form:"company_name"`
	GSTIN         *string `json:"gstin"          form:"gstin"`
	OfficeAddress *string `json:"office_address" form:"office_address"`

	HashedPassword string `json:"-" form:"-"`
}

type RegisterResponse struct {
	UserID    int    `json:"user_id"`
	VendorID  int    `json:"vendor_id"`
	VendorUID string `json:"vendor_uid"`
	Email     string `json:"email"`
	Status    string `json:"verification_status"`
}

type OTPRequest struct {
	Email   string `json:"email"   form:"email"`
	Purpose string `json:"purpose" form:"purpose"`
}

type OTPVerifyRequest struct {
	Email   string `json:"email"   form:"email"`
	Purpose string `json:"purpose" form:"purpose"`
	Code    string `json:"code"    form:"code"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}
