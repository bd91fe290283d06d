package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	Email       string  `json:"email"        bun:"email"`
	Password    string  `json:"-"            bun:"hashed_password"`
	FullName    *string `json:"full_name"    bun:"full_name"`
	PhoneNumber *string `json:"phone_number" bun:"phone_number"`
	Role        string  `json:"role"         bun:"role"`
	IsActive    bool    `json:"is_active"    bun:"is_active"`
}
