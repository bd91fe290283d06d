package companyLocation

type Filter struct {
	Limit  *int
	Offset *int
	Search *string
}
