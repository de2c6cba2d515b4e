package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/polarhive/timetable-backend/internal/config"
	"github.com/polarhive/timetable-backend/internal/handler"
	"github.com/polarhive/timetable-backend/internal/middleware"
	"github.com/polarhive/timetable-backend/internal/response"
)

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(timetables *handler.TimetableHandler, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes carrying portal credentials hit the upstream on every call, so
	// they get a tighter per-IP budget.
	portalLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := router.Group("/api/v1")
	{
		// ─── Stored timetables (read-only, briefly cacheable) ──────────
		stored := api.Group("")
		stored.Use(middleware.CacheControl(300))
		{
			stored.GET("/timetables", timetables.List)
			stored.GET("/timetable/:name", timetables.Get)
			stored.GET("/timetable/:name/render", timetables.Render)
			stored.GET("/timetable/:name/ical", timetables.ExportStoredICal)
		}
		api.POST("/compare/stored", timetables.CompareStored)

		// ─── Live portal routes (credentialed, rate limited) ───────────
		live := api.Group("")
		live.Use(portalLimiter.Middleware())
		{
			live.POST("/timetable", timetables.Fetch)
			live.POST("/timetable/ical", timetables.ExportLiveICal)
			live.POST("/compare", timetables.CompareLive)
		}
	}

	return router
}
