package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hearthfin/hearth_finance_app/cmd/docs"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
	"github.com/hearthfin/hearth_finance_app/internal/platform/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// registerCustomValidators extends gin's binding validator. "notblank"
// rejects strings that are empty after trimming, which "required" alone
// does not.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	syncLimiter *limiter.Limiter,
) {
	registerCustomValidators()

	// Health check route, outside auth
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, syncLimiter)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	syncLimiter *limiter.Limiter,
) {
	// Every v1 route requires a valid device token.
	v1 := r.Group("/api/v1", middleware.DeviceAuthMiddleware(cfg.DeviceTokenSecret))

	registerAccountRoutes(v1, services.Account)
	registerCategoryRoutes(v1, services.Category)
	registerRuleRoutes(v1, services.Rule)
	registerTransactionRoutes(v1, services.Transaction, services.Ingestion)
	registerAuditRoutes(v1, services.Audit)

	// Sync endpoints are polled by every device, so they carry the rate
	// limiter in addition to auth. Snapshot export/import live under the same
	// group because they serve the same device clients.
	sync := v1.Group("/sync", middleware.RateLimit(syncLimiter))
	registerSyncRoutes(sync, services.Sync)
	registerSnapshotRoutes(sync, services.Snapshot, cfg.SnapshotImportTimeout)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		// no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
