package router

import (
	"time"

	"brickpile/internal/config"
	"brickpile/internal/handler"
	"brickpile/internal/middleware"
	"brickpile/internal/service"
	"brickpile/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires the HTTP surface and returns a configured Gin engine.
// Services are built at the composition root (cmd/server) because the
// worker pool shares them; the router only attaches handlers.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sim service.SimulationService, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	stepH := handler.NewStepHandler(sim)
	pileH := handler.NewPileHandler(sim, rdb, cfg.PilePreviewLimit)
	adminH := handler.NewAdminHandler(dispatcher)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, sim))

	v1 := r.Group("/v1")
	{
		v1.GET("/pile", pileH.Preview)
		v1.POST("/step", middleware.StepRateLimiter(), stepH.TakeStep)
		v1.POST("/admin/rebuild", adminH.TriggerRebuild)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
