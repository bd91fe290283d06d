package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/middleware"
	"vms/backend/internal/pkg/config"
	"vms/backend/internal/pkg/repository/postgresql"
	"vms/backend/internal/repository/postgres/agent"
	"vms/backend/internal/repository/postgres/companyLocation"
	"vms/backend/internal/repository/postgres/document"
	"vms/backend/internal/repository/postgres/user"
	"vms/backend/internal/repository/postgres/vendors"
	"vms/backend/internal/repository/postgres/visit"
	redisRepo "vms/backend/internal/repository/redis"
	"vms/backend/internal/service/geofence"
	"vms/backend/internal/service/otp"
	"vms/backend/internal/service/qr"
	"vms/backend/internal/service/storage"

	agent_controller "vms/backend/internal/controller/http/v1/agent"
	auth_controller "vms/backend/internal/controller/http/v1/auth"
	companyLocation_controller "vms/backend/internal/controller/http/v1/companyLocation"
	document_controller "vms/backend/internal/controller/http/v1/document"
	"vms/backend/internal/controller/http/v1/file"
	qrcode_controller "vms/backend/internal/controller/http/v1/qrcode"
	vendors_controller "vms/backend/internal/controller/http/v1/vendors"
	visit_controller "vms/backend/internal/controller/http/v1/visit"

	document_service "vms/backend/internal/service/document"
	vendors_service "vms/backend/internal/service/vendors"
	visit_service "vms/backend/internal/service/visit"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	auth       *auth.Auth
	uploader   storage.Uploader
	renderer   qr.Renderer
	cfg        *config.Config
}

// NewRouter takes an optional redis client and the renderer returned by
// qr.CheckRenderer, which is nil when QR rendering is unavailable.
func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	auth *auth.Auth,
	uploader storage.Uploader,
	renderer qr.Renderer,
	cfg *config.Config,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		auth,
		uploader,
		renderer,
		cfg,
	}
}

// NewUploader builds the configured object store behind the circuit breaker.
func NewUploader(cfg config.Storage) (storage.Uploader, error) {
	var next storage.Uploader
	switch cfg.Driver {
	case config.StorageCloudinary:
		cld, err := storage.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return nil, err
		}
		next = cld
	case config.StorageLocal, "":
		next = storage.NewLocal(cfg.MediaDir, cfg.BaseURL)
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}

	return storage.NewBreaker(next, storage.BreakerConfig{Name: cfg.Driver}), nil
}

// NewGenerator wires the QR generator the HTTP handlers and the backfill
// command share.
func NewGenerator(db *postgresql.Database, uploader storage.Uploader, renderer qr.Renderer) *qr.Generator {
	return qr.NewGenerator(vendors.NewRepository(db), uploader, renderer)
}

func (r Router) Init() error {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORSMiddleware(r.cfg.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	vendorPostgres := vendors.NewRepository(r.postgresDB)
	visitPostgres := visit.NewRepository(r.postgresDB)
	companyLocationPostgres := companyLocation.NewRepository(r.postgresDB)
	agentPostgres := agent.NewRepository(r.postgresDB)
	documentPostgres := document.NewRepository(r.postgresDB)

	// - redis
	resolverOpts := []geofence.Option{geofence.WithThreshold(r.cfg.Geofence.ThresholdMeters)}
	var otpStore auth_controller.OTPStore
	if r.redisDB != nil {
		resolverOpts = append(resolverOpts, geofence.WithLocker(redisRepo.NewLocker(r.redisDB)))
		otpStore = redisRepo.NewOTPStore(r.redisDB)
	} else {
		log.Warn().Msg("redis is not configured: otp endpoints are disabled and company address checks are not locked")
	}

	// service
	resolver := geofence.NewResolver(companyLocationPostgres, resolverOpts...)
	generator := qr.NewGenerator(vendorPostgres, r.uploader, r.renderer)
	verifier := qr.NewVerifier(vendorPostgres)
	vendorService := vendors_service.NewService(vendorPostgres, generator)
	visitService := visit_service.NewService(visitPostgres, vendorPostgres, resolver, r.uploader)
	documentService := document_service.NewService(documentPostgres, vendorPostgres, r.uploader)

	// controller
	authController := auth_controller.NewController(userPostgres, otpStore, otp.LogSender{}, r.auth)
	visitController := visit_controller.NewController(visitService)
	vendorController := vendors_controller.NewController(vendorService)
	qrcodeController := qrcode_controller.NewController(vendorService, verifier, generator)
	companyLocationController := companyLocation_controller.NewController(companyLocationPostgres, resolver)
	agentController := agent_controller.NewController(agentPostgres)
	documentController := document_controller.NewController(documentService)

	fileC := file.NewController(r.cfg.Storage.MediaDir)

	r.GET(storage.MediaPrefix+"/*filepath", fileC.File)
	r.HEAD(storage.MediaPrefix+"/*filepath", fileC.File)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)
	r.Post("/api/v1/register", authController.Register)
	r.Post("/api/v1/otp/request", authController.RequestOTP)
	r.Post("/api/v1/otp/verify", authController.VerifyOTP)
	r.Post("/api/v1/reset-password", authController.ResetPassword)

	// #visit
	r.Post("/api/v1/visit/check-in", visitController.CheckIn, middleware.Authenticate(r.auth, auth.RoleVendor))
	r.Post("/api/v1/visit/check-out/:id", visitController.CheckOut, middleware.Authenticate(r.auth, auth.RoleVendor))
	r.Get("/api/v1/visit/list", visitController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleVendor))
	r.Get("/api/v1/visit/export", visitController.Export, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #vendor
	r.Get("/api/v1/vendor/me", vendorController.GetMe, middleware.Authenticate(r.auth, auth.RoleVendor))
	r.Patch("/api/v1/vendor/me", vendorController.UpdateMe, middleware.Authenticate(r.auth, auth.RoleVendor))
	r.Get("/api/v1/vendor/list", vendorController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/vendor/status/:id", vendorController.SetStatus, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #qrcode
	r.Get("/api/v1/qrcode/me", qrcodeController.GetMine, middleware.Authenticate(r.auth, auth.RoleVendor))
	r.Post("/api/v1/qrcode/scan", qrcodeController.Scan, middleware.Authenticate(r.auth))
	r.Post("/api/v1/qrcode/backfill", qrcodeController.Backfill, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/qrcode/sheet", qrcodeController.Sheet, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/qrcode/vendor/:id", qrcodeController.GetByVendorId, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #companyLocation
	r.Get("/api/v1/company-location/list", companyLocationController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/company-location/detect", companyLocationController.Detect, middleware.Authenticate(r.auth))

	// #agent
	r.Get("/api/v1/agent/list", agentController.GetList, middleware.Authenticate(r.auth))
	r.Post("/api/v1/agent/create", agentController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #document
	r.Post("/api/v1/document/upload", documentController.Upload, middleware.Authenticate(r.auth, auth.RoleVendor))
	r.Get("/api/v1/document/list", documentController.GetList, middleware.Authenticate(r.auth, auth.RoleVendor))

	return nil
}
