package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/outfit-ml/internal/http/handlers"
	"github.com/phambaophuc/outfit-ml/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	inferenceHandler *handlers.InferenceHandler
	logger           *zap.Logger
}

func NewRouter(
	inferenceHandler *handlers.InferenceHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		inferenceHandler: inferenceHandler,
		logger:           logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.ValidateContentType())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.inferenceHandler.HealthCheck)
		v1.GET("/health/services", r.inferenceHandler.ServicesHealth)

		classify := v1.Group("/classify")
		{
			classify.POST("", r.inferenceHandler.ClassifyItem)
			classify.POST("/vlm", r.inferenceHandler.ClassifyWithVLM)
			classify.POST("/auto", r.inferenceHandler.ClassifyAuto)
		}

		background := v1.Group("/background")
		{
			background.POST("/remove", r.inferenceHandler.RemoveBackground)
			background.POST("/remove/batch", r.inferenceHandler.BatchRemove)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", r.inferenceHandler.SubmitJob)
			jobs.GET("/:id", r.inferenceHandler.GetJob)
		}

		v1.GET("/queue/stats", r.inferenceHandler.QueueStats)
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Outfit ML inference service is running",
		})
	})

	return router
}
