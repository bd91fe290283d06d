package qrcode

import (
	"context"
	"io"

	"vms/backend/internal/service/qr"
)

type Vendor interface {
	MyQRCode(ctx context.Context) (qr.Result, error)
	QRCode(ctx context.Context, id int) (qr.Result, error)
}

type Scanner interface {
	Scan(ctx context.Context, raw string) (qr.ScanResult, error)
}

type Generator interface {
	Backfill(ctx context.Context) (qr.BackfillSummary, error)
	WriteSheet(ctx context.Context, w io.Writer) error
}
