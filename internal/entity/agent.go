package entity

import (
	"github.com/uptrace/bun"
)

type Agent struct {
	bun.BaseModel `bun:"table:agents"`

	ID         int     `json:"id"         bun:"id,pk,autoincrement"`
	Name       string  `json:"name"       bun:"name"`
	Department *string `json:"department" bun:"department"`
	Email      *string `json:"email"      bun:"email"`
	IsActive   bool    `json:"is_active"  bun:"is_active"`
}
