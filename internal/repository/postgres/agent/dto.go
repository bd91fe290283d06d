package agent

type Filter struct {
	Limit  *int
	Offset *int
}

type CreateRequest struct {
	Name       string  `json:"name"       form:"name"`
	Department *string `json:"department" form:"department"`
	Email      *string `json:"email"      form:"email"`
}
