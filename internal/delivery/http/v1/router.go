package v1

import (
	"log/slog"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// MaxBodyBytes matches the 10 MB JSON limit of the previous deployment.
const MaxBodyBytes = 10 << 20

// AvailableEndpoints is advertised by the 404 handler.
var AvailableEndpoints = []string{
	"GET /api/health",
	"POST /api/contact",
}

type RouterDeps struct {
	ContactUC   domain.ContactUsecase
	HealthUC    domain.HealthUsecase
	RateLimiter gin.HandlerFunc // applied to the contact route only
	Logger      *slog.Logger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	// Client IP comes from the socket unless proxies are configured
	_ = r.SetTrustedProxies(deps.Config.TrustedProxies)

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger, deps.Config.VerboseErrors))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigin))
	r.Use(middleware.BodyLimit(MaxBodyBytes))
	r.Use(middleware.ErrorHandler(deps.Logger, deps.Config.VerboseErrors))

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)
	NewContactHandler(api, deps.ContactUC, deps.RateLimiter)

	// Swagger
	api.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, AvailableEndpoints)
	})

	return r
}
