package qr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"vms/backend/foundation/web"
	"vms/backend/internal/entity"
	"vms/backend/internal/pkg/metrics"
)

// Folder is the object storage folder QR images are uploaded to.
const Folder = "qr_codes"

type VendorStore interface {
	GetById(ctx context.Context, id int) (entity.Vendor, error)
	SaveQRCode(ctx context.Context, id int, data, imageURL string, generatedAt time.Time) error
	ListVerified(ctx context.Context) ([]entity.Vendor, error)
	ListVerifiedWithoutQRCode(ctx context.Context) ([]entity.Vendor, error)
}

type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder, filename string) (string, error)
}

type Result struct {
	Payload     string    `json:"qr_code_data"`
	ImageURL    string    `json:"qr_code_image_url"`
	GeneratedAt time.Time `json:"qr_code_generated_at"`
}

type Failure struct {
	VendorID int    `json:"vendor_id"`
	Error    string `json:"error"`
}

type BackfillSummary struct {
	Processed int       `json:"processed"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

type Generator struct {
	store    VendorStore
	uploader Uploader
	renderer Renderer
	workers  int
	now      func() time.Time
}

// NewGenerator takes the renderer returned by CheckRenderer; a nil renderer
// makes every generation fail with ErrRendererUnavailable.
func NewGenerator(store VendorStore, uploader Uploader, renderer Renderer) *Generator {
	return &Generator{
		store:    store,
		uploader: uploader,
		renderer: renderer,
		workers:  4,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (g *Generator) Available() bool {
	return g.renderer != nil
}

// Get returns the vendor's QR code, generating it on first access. Only
// verified vendors have one.
func (g *Generator) Get(ctx context.Context, vendorID int) (Result, error) {
	vendor, err := g.store.GetById(ctx, vendorID)
	if err != nil {
		return Result{}, err
	}
	if !vendor.IsVerified() {
		return Result{}, web.NewRequestError(errors.New("vendor is not verified"), http.StatusForbidden)
	}

	if vendor.HasQRCode() && vendor.QRCodeData != nil {
		res := Result{Payload: *vendor.QRCodeData, ImageURL: *vendor.QRCodeImageURL}
		if vendor.QRCodeGeneratedAt != nil {
			res.GeneratedAt = *vendor.QRCodeGeneratedAt
		}
		return res, nil
	}

	return g.Generate(ctx, vendor)
}

// Generate renders, uploads and stores a fresh QR code for vendor.
func (g *Generator) Generate(ctx context.Context, vendor entity.Vendor) (res Result, err error) {
	defer func() { metrics.QRGenerated.WithLabelValues(metrics.Result(err)).Inc() }()

	if g.renderer == nil {
		return Result{}, web.NewRequestError(ErrRendererUnavailable, http.StatusServiceUnavailable)
	}

	data, err := NewPayload(vendor).Encode()
	if err != nil {
		return Result{}, web.NewRequestError(err, http.StatusInternalServerError)
	}

	png, err := g.renderer.Render(data)
	if err != nil {
		return Result{}, web.NewRequestError(errors.Wrap(ErrRendererUnavailable, err.Error()), http.StatusServiceUnavailable)
	}

	url, err := g.uploader.Upload(ctx, bytes.NewReader(png), Folder, fmt.Sprintf("vendor-%d.png", vendor.ID))
	if err != nil {
		return Result{}, web.NewRequestError(errors.Wrap(err, "uploading qr code"), http.StatusServiceUnavailable)
	}

	generatedAt := g.now()
	if err := g.store.SaveQRCode(ctx, vendor.ID, data, url, generatedAt); err != nil {
		return Result{}, err
	}

	return Result{Payload: data, ImageURL: url, GeneratedAt: generatedAt}, nil
}

// RegenerateBestEffort refreshes the QR code of a verified vendor as a side
// effect of another operation. Failures are logged, never returned.
func (g *Generator) RegenerateBestEffort(ctx context.Context, vendorID int) {
	vendor, err := g.store.GetById(ctx, vendorID)
	if err != nil {
		log.Warn().Err(err).Int("vendor_id", vendorID).Msg("qr regeneration: loading vendor")
		return
	}
	if !vendor.IsVerified() {
		return
	}
	if _, err := g.Generate(ctx, vendor); err != nil {
		log.Warn().Err(err).Int("vendor_id", vendorID).Msg("qr regeneration failed")
		return
	}
	log.Info().Int("vendor_id", vendorID).Msg("qr code regenerated")
}

// Backfill generates QR codes for every verified vendor that has none.
func (g *Generator) Backfill(ctx context.Context) (BackfillSummary, error) {
	vendors, err := g.store.ListVerifiedWithoutQRCode(ctx)
	if err != nil {
		return BackfillSummary{}, err
	}

	var (
		mu      sync.Mutex
		summary = BackfillSummary{Processed: len(vendors)}
	)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.workers)

	for _, vendor := range vendors {
		vendor := vendor
		group.Go(func() error {
			_, err := g.Generate(gctx, vendor)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				summary.Failures = append(summary.Failures, Failure{VendorID: vendor.ID, Error: err.Error()})
				log.Warn().Err(err).Int("vendor_id", vendor.ID).Msg("qr backfill failed")
				return nil
			}
			summary.Succeeded++
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return summary, err
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("qr backfill finished")

	return summary, nil
}
