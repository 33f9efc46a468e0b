package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/retailops/stocksim/internal/api/handlers"
	"github.com/retailops/stocksim/internal/api/middleware"
	"github.com/retailops/stocksim/internal/service"
)

type Services struct {
	Simulation *service.SimulationService
	Report     *service.ReportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.Simulation != nil {
		simHandler := handlers.NewSimulationHandler(services.Simulation)
		apiGroup.POST("/simulations", simHandler.Run)
		apiGroup.GET("/store-items", simHandler.ListStoreItems)
		apiGroup.GET("/artifacts", simHandler.ListArtifacts)
	}

	if services != nil && services.Report != nil {
		reportHandler := handlers.NewReportHandler(services.Report)
		apiGroup.GET("/simulations/:store_id/:item_id/report", reportHandler.GetSummary)
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	var normalized []string
	for _, origin := range allowedOrigins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				cfg.AllowOrigins = nil
				cfg.AllowOriginFunc = func(origin string) bool { return true }
				return cfg
			}
			normalized = append(normalized, trimmed)
		}
	}
	if len(normalized) > 0 {
		cfg.AllowOrigins = normalized
	}
	return cfg
}
