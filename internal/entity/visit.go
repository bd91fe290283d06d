package entity

import (
	"time"

	"github.com/uptrace/bun"
)

type Visit struct {
	bun.BaseModel `bun:"table:visits"`

	ID                int        `json:"id"                   bun:"id,pk,autoincrement"`
	VendorID          int        `json:"vendor_id"            bun:"vendor_id"`
	AgentID           *int       `json:"agent_id"             bun:"agent_id"`
	CheckInTime       time.Time  `json:"check_in_time"        bun:"check_in_time,nullzero,notnull,default:current_timestamp"`
	CheckOutTime      *time.Time `json:"check_out_time"       bun:"check_out_time"`
	CheckInLatitude   float64    `json:"check_in_latitude"    bun:"check_in_latitude"`
	CheckInLongitude  float64    `json:"check_in_longitude"   bun:"check_in_longitude"`
	CheckOutLatitude  *float64   `json:"check_out_latitude"   bun:"check_out_latitude"`
	CheckOutLongitude *float64   `json:"check_out_longitude"  bun:"check_out_longitude"`
	Area              *string    `json:"area"                 bun:"area"`
	Pincode           *string    `json:"pincode"              bun:"pincode"`
	City              *string    `json:"city"                 bun:"city"`
	State             *string    `json:"state"                bun:"state"`
	CheckInLocation   *string    `json:"check_in_location"    bun:"check_in_location"`
	CheckOutLocation  *string    `json:"check_out_location"   bun:"check_out_location"`
	CheckInSelfieURL  string     `json:"check_in_selfie_url"  bun:"check_in_selfie_url"`
	CheckOutSelfieURL *string    `json:"check_out_selfie_url" bun:"check_out_selfie_url"`
	Purpose           *string    `json:"purpose"              bun:"purpose"`
}

func (v Visit) CheckedOut() bool {
	return v.CheckOutTime != nil
}
