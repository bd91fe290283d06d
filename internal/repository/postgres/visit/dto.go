package visit

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
)

// Filter narrows the visit list. When OwnerID and CompanyName are both set a
// visit matches if it belongs to the owner or its purpose names the company.
type Filter struct {
	Limit       *int
	Offset      *int
	OwnerID     *int
	CompanyName *string
	From        *date.Date
	To          *date.Date
}

type CheckoutRequest struct {
	Latitude  float64
	Longitude float64
	Location  *string
	SelfieURL string
	Time      time.Time
}
