package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/infrastructure/auth"
	"github.com/praktis/backend/internal/infrastructure/config"
	"github.com/praktis/backend/internal/infrastructure/logger"
	"github.com/praktis/backend/internal/interfaces/http/dto"
	"github.com/praktis/backend/internal/interfaces/http/handler"
	"github.com/praktis/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Handlers carries every HTTP handler the router mounts
type Handlers struct {
	Auth       *handler.AuthHandler
	Staff      *handler.StaffHandler
	Client     *handler.ClientHandler
	Task       *handler.TaskHandler
	Billing    *handler.BillingHandler
	Settings   *handler.SettingsHandler
	Dashboard  *handler.DashboardHandler
	Activity   *handler.ActivityHandler
	Management *handler.ManagementHandler
	System     *handler.SystemHandler
}

// New builds the gin engine with the middleware chain and all routes
// mounted under /api/v1
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidations(); err != nil {
		log.Fatal("Failed to register binding validations", zap.Error(err))
	}

	engine := gin.New()
	engine.MaxMultipartMemory = cfg.HTTP.MaxBodySize
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(logger.GinRecovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	h.System.RegisterHealthRoute(engine)

	api := engine.Group("/api/v1")
	h.Auth.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.Auth(jwtService, blacklist, log))

	// Routes every signed-in user can reach. Services still narrow
	// staff visibility to assigned work.
	for _, r := range []RouteRegistrar{h.Auth, h.Client, h.Task, h.Billing} {
		r.RegisterRoutes(authed)
	}

	admin := authed.Group("")
	admin.Use(middleware.AdminOnly())
	for _, r := range []RouteRegistrar{h.Staff, h.Settings, h.Dashboard, h.Activity, h.Management, h.System} {
		r.RegisterRoutes(admin)
	}

	return engine
}
