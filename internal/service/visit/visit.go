// Package visit records vendor check-ins and check-outs.
package visit

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/entity"
	"vms/backend/internal/pkg/metrics"
	visitRepo "vms/backend/internal/repository/postgres/visit"
	"vms/backend/internal/service/geofence"
	"vms/backend/internal/service/storage"
)

type Store interface {
	Create(ctx context.Context, visit *entity.Visit) error
	GetById(ctx context.Context, id int) (entity.Visit, error)
	Checkout(ctx context.Context, id int, request visitRepo.CheckoutRequest) (entity.Visit, error)
	GetList(ctx context.Context, filter visitRepo.Filter) ([]entity.Visit, int, error)
}

type Vendors interface {
	GetByUserId(ctx context.Context, userID int) (entity.Vendor, error)
}

type Resolver interface {
	Resolve(ctx context.Context, req geofence.Request) (geofence.Resolution, error)
}

type CheckInRequest struct {
	Latitude    *float64              `json:"latitude"     form:"latitude"`
	Longitude   *float64              `json:"longitude"    form:"longitude"`
	AgentID     *int                  `json:"agent_id"     form:"agent_id"`
	CompanyName *string               `json:"company_name" form:"company_name"`
	Address     *string               `json:"address"      form:"address"`
	Purpose     *string               `json:"purpose"      form:"purpose"`
	Area        *string               `json:"area"         form:"area"`
	Pincode     *string               `json:"pincode"      form:"pincode"`
	City        *string               `json:"city"         form:"city"`
	State       *string               `json:"state"        form:"state"`
	Selfie      *multipart.FileHeader `json:"-"            form:"selfie"`
}

type CheckOutRequest struct {
	Latitude  *float64              `json:"latitude"  form:"latitude"`
	Longitude *float64              `json:"longitude" form:"longitude"`
	Location  *string               `json:"location"  form:"location"`
	Selfie    *multipart.FileHeader `json:"-"         form:"selfie"`
}

type CheckInResponse struct {
	Visit      entity.Visit            `json:"visit"`
	Company    string                  `json:"company,omitempty"`
	Resolution geofence.Outcome        `json:"resolution"`
	Location   *entity.CompanyLocation `json:"company_location,omitempty"`
	Distance   *float64                `json:"distance_meters,omitempty"`
}

type ListFilter struct {
	Limit  *int
	Offset *int
	From   *date.Date
	To     *date.Date
}

type Service struct {
	visits   Store
	vendors  Vendors
	resolver Resolver
	uploader storage.Uploader
	now      func() time.Time
}

func NewService(visits Store, vendors Vendors, resolver Resolver, uploader storage.Uploader) *Service {
	return &Service{
		visits:   visits,
		vendors:  vendors,
		resolver: resolver,
		uploader: uploader,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CheckIn(ctx context.Context, request CheckInRequest) (CheckInResponse, error) {
	if err := validCoordinates(request.Latitude, request.Longitude); err != nil {
		return CheckInResponse{}, err
	}
	if request.Selfie == nil {
		return CheckInResponse{}, web.NewRequestError(errors.New("selfie is required"), http.StatusBadRequest)
	}

	vendor, err := s.currentVendor(ctx)
	if err != nil {
		return CheckInResponse{}, err
	}

	selfieURL, err := storage.UploadImage(ctx, s.uploader, request.Selfie, storage.FolderSelfies)
	if err != nil {
		return CheckInResponse{}, err
	}

	lat, lon := *request.Latitude, *request.Longitude
	resolution, err := s.resolver.Resolve(ctx, geofence.Request{
		Latitude:    lat,
		Longitude:   lon,
		CompanyName: text(request.CompanyName),
		Address:     text(request.Address),
	})
	if err != nil {
		return CheckInResponse{}, err
	}

	visit := entity.Visit{
		VendorID:         vendor.ID,
		AgentID:          request.AgentID,
		CheckInTime:      s.now(),
		CheckInLatitude:  lat,
		CheckInLongitude: lon,
		CheckInSelfieURL: selfieURL,
		CheckInLocation:  optional(request.Address),
		Area:             optional(request.Area),
		Pincode:          optional(request.Pincode),
		City:             optional(request.City),
		State:            optional(request.State),
	}
	if purpose := geofence.ComposePurpose(resolution.Designation, text(request.Purpose)); purpose != "" {
		visit.Purpose = &purpose
	}

	if err := s.visits.Create(ctx, &visit); err != nil {
		return CheckInResponse{}, err
	}
	metrics.CheckIns.WithLabelValues(string(resolution.Outcome)).Inc()

	log.Info().
		Int("visit_id", visit.ID).
		Int("vendor_id", vendor.ID).
		Str("company", resolution.Designation).
		Str("resolution", string(resolution.Outcome)).
		Msg("check-in recorded")

	response := CheckInResponse{
		Visit:      visit,
		Company:    resolution.Designation,
		Resolution: resolution.Outcome,
		Location:   resolution.Detected,
	}
	if resolution.Created != nil {
		response.Location = resolution.Created
	}
	if resolution.Detected != nil {
		d := resolution.Distance
		response.Distance = &d
	}
	return response, nil
}

func (s *Service) CheckOut(ctx context.Context, id int, request CheckOutRequest) (entity.Visit, error) {
	if err := validCoordinates(request.Latitude, request.Longitude); err != nil {
		return entity.Visit{}, err
	}

	vendor, err := s.currentVendor(ctx)
	if err != nil {
		return entity.Visit{}, err
	}

	visit, err := s.visits.GetById(ctx, id)
	if err != nil {
		return entity.Visit{}, err
	}
	if visit.VendorID != vendor.ID {
		return entity.Visit{}, web.NewRequestError(errors.New("visit belongs to another vendor"), http.StatusForbidden)
	}
	if visit.CheckedOut() {
		return entity.Visit{}, web.NewRequestError(visitRepo.ErrAlreadyCheckedOut, http.StatusBadRequest)
	}
	if request.Selfie == nil {
		return entity.Visit{}, web.NewRequestError(errors.New("selfie is required"), http.StatusBadRequest)
	}

	selfieURL, err := storage.UploadImage(ctx, s.uploader, request.Selfie, storage.FolderSelfies)
	if err != nil {
		return entity.Visit{}, err
	}

	updated, err := s.visits.Checkout(ctx, id, visitRepo.CheckoutRequest{
		Latitude:  *request.Latitude,
		Longitude: *request.Longitude,
		Location:  optional(request.Location),
		SelfieURL: selfieURL,
		Time:      s.now(),
	})
	if err != nil {
		return entity.Visit{}, err
	}
	metrics.CheckOuts.Inc()

	return updated, nil
}

// List returns every visit to admins. Vendors see their own visits and the
// visits attributed to their company.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]entity.Visit, int, error) {
	claims, ok := auth.GetClaims(ctx)
	if !ok {
		return nil, 0, web.NewRequestError(errors.New("unauthorized"), http.StatusUnauthorized)
	}

	query := visitRepo.Filter{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		From:   filter.From,
		To:     filter.To,
	}

	if !claims.Authorized(auth.RoleAdmin) {
		vendor, err := s.vendors.GetByUserId(ctx, claims.UserId)
		if err != nil {
			return nil, 0, err
		}
		query.OwnerID = &vendor.ID
		if name := text(vendor.CompanyName); name != "" {
			query.CompanyName = &name
		}
	}

	return s.visits.GetList(ctx, query)
}

func (s *Service) currentVendor(ctx context.Context) (entity.Vendor, error) {
	claims, ok := auth.GetClaims(ctx)
	if !ok {
		return entity.Vendor{}, web.NewRequestError(errors.New("unauthorized"), http.StatusUnauthorized)
	}
	if !claims.Authorized(auth.RoleVendor) {
		return entity.Vendor{}, web.NewRequestError(errors.New("only vendors can record visits"), http.StatusForbidden)
	}
	return s.vendors.GetByUserId(ctx, claims.UserId)
}

func validCoordinates(lat, lon *float64) error {
	if lat == nil || lon == nil {
		return web.NewRequestError(errors.New("latitude and longitude are required"), http.StatusBadRequest)
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return web.NewRequestError(errors.New("coordinates are out of range"), http.StatusBadRequest)
	}
	return nil
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// optional trims s and maps blank values to nil.
func optional(s *string) *string {
	t := text(s)
	if t == "" {
		return nil
	}
	return &t
}
