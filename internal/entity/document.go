package entity

import (
	"time"

	"github.com/uptrace/bun"
)

const DocumentTypeLogo = "LOGO"

type Document struct {
	bun.BaseModel `bun:"table:documents"`

	ID           int       `json:"id"            bun:"id,pk,autoincrement"`
	VendorID     int       `json:"vendor_id"     bun:"vendor_id"`
	DocumentType string    `json:"document_type" bun:"document_type"`
	FileURL      string    `json:"file_url"      bun:"file_url"`
	UploadedAt   time.Time `json:"uploaded_at"   bun:"uploaded_at,nullzero,notnull,default:current_timestamp"`
}
