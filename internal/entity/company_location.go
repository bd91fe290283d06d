package entity

import (
	"github.com/uptrace/bun"
)

type CompanyLocation struct {
	bun.BaseModel `bun:"table:company_locations"`

	BasicEntity
	CompanyName string  `json:"company_name" bun:"company_name"`
	Latitude    float64 `json:"latitude"     bun:"latitude"`
	Longitude   float64 `json:"longitude"    bun:"longitude"`
	Address     *string `json:"address"      bun:"address"`
}
