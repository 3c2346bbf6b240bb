package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/outfit-ml/internal/http/middleware"
	"github.com/phambaophuc/outfit-ml/internal/logging"
	"github.com/phambaophuc/outfit-ml/internal/models"
	"github.com/phambaophuc/outfit-ml/internal/services/queue"
	"go.uber.org/zap"
)

// InferenceService runs the inference operations.
type InferenceService interface {
	HealthCheck(ctx context.Context) *models.HealthCheckResult
	ClassifyItem(ctx context.Context, imageURL string) (*models.ClassificationResult, error)
	ClassifyWithVLM(ctx context.Context, imageURL string) (*models.ClassificationResult, error)
	Classify(ctx context.Context, imageURL string) (*models.ClassificationResult, error)
	RemoveBackground(ctx context.Context, imageURL string) (*models.BackgroundRemovalResult, error)
	RemoveBackgrounds(ctx context.Context, imageURLs []string) *models.BatchRemoveResponse
}

// JobQueue accepts asynchronous inference jobs.
type JobQueue interface {
	SubmitJob(ctx context.Context, kind models.JobKind, imageURL string) (*models.InferenceJob, error)
	GetJob(ctx context.Context, id string) (*models.InferenceJob, error)
	GetQueueStats() (*queue.Stats, error)
	HealthCheck() string
}

// DependencyChecker reports the state of backing stores.
type DependencyChecker interface {
	HealthCheck(ctx context.Context) map[string]string
}

type InferenceHandler struct {
	inference InferenceService
	jobs      JobQueue
	deps      DependencyChecker
	logger    *zap.Logger
}

// NewInferenceHandler accepts a nil jobs queue; job endpoints then answer 503.
func NewInferenceHandler(
	inference InferenceService,
	jobs JobQueue,
	deps DependencyChecker,
	logger *zap.Logger,
) *InferenceHandler {
	return &InferenceHandler{
		inference: inference,
		jobs:      jobs,
		deps:      deps,
		logger:    logger,
	}
}

// HealthCheck probes the GPU. The probe result is the body in both cases.
func (h *InferenceHandler) HealthCheck(c *gin.Context) {
	result := h.inference.HealthCheck(c.Request.Context())

	statusCode := http.StatusOK
	if result.Status != models.StatusHealthy {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, result)
}

func (h *InferenceHandler) ServicesHealth(c *gin.Context) {
	services := map[string]string{}
	if h.deps != nil {
		services = h.deps.HealthCheck(c.Request.Context())
	}
	if h.jobs != nil {
		services["rabbitmq"] = h.jobs.HealthCheck()
	} else {
		services["rabbitmq"] = "not configured"
	}

	overall := h.calculateOverallHealth(services)
	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

func (h *InferenceHandler) ClassifyItem(c *gin.Context) {
	h.classify(c, "classify_item", h.inference.ClassifyItem)
}

func (h *InferenceHandler) ClassifyWithVLM(c *gin.Context) {
	h.classify(c, "classify_with_vlm", h.inference.ClassifyWithVLM)
}

func (h *InferenceHandler) ClassifyAuto(c *gin.Context) {
	h.classify(c, "classify", h.inference.Classify)
}

func (h *InferenceHandler) RemoveBackground(c *gin.Context) {
	req, ok := h.bindImageRequest(c)
	if !ok {
		return
	}

	result, err := h.inference.RemoveBackground(c.Request.Context(), req.ImageURL)
	if err != nil {
		h.respondFailure(c, "remove_background", "Failed to remove background", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InferenceHandler) BatchRemove(c *gin.Context) {
	var req models.BatchRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	response := h.inference.RemoveBackgrounds(c.Request.Context(), req.ImageURLs)
	c.JSON(http.StatusOK, models.APIResponse{
		Success: response.Failed == 0,
		Data:    response,
	})
}

func (h *InferenceHandler) SubmitJob(c *gin.Context) {
	if h.jobs == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue is not available")
		return
	}

	var req models.SubmitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobs.SubmitJob(c.Request.Context(), req.Kind, req.ImageURL)
	if err != nil {
		if errors.Is(err, queue.ErrInvalidJobKind) || errors.Is(err, queue.ErrMissingImageURL) {
			h.respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.respondFailure(c, "submit_job", "Failed to submit job", err)
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *InferenceHandler) GetJob(c *gin.Context) {
	if h.jobs == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue is not available")
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondFailure(c, "get_job", "Failed to load job", err)
		return
	}
	if job == nil {
		h.respondError(c, http.StatusNotFound, "Job not found")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *InferenceHandler) QueueStats(c *gin.Context) {
	if h.jobs == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue is not available")
		return
	}

	stats, err := h.jobs.GetQueueStats()
	if err != nil {
		h.respondFailure(c, "queue_stats", "Failed to inspect queue", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    stats,
	})
}

type classifyFunc func(ctx context.Context, imageURL string) (*models.ClassificationResult, error)

func (h *InferenceHandler) classify(c *gin.Context, operation string, run classifyFunc) {
	req, ok := h.bindImageRequest(c)
	if !ok {
		return
	}

	result, err := run(c.Request.Context(), req.ImageURL)
	if err != nil {
		h.respondFailure(c, operation, "Failed to classify image", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InferenceHandler) bindImageRequest(c *gin.Context) (*models.ImageRequest, bool) {
	var req models.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "image_url is required")
		return nil, false
	}
	return &req, true
}

func (h *InferenceHandler) respondFailure(c *gin.Context, operation, message string, err error) {
	requestID := middleware.GetRequestID(c)
	logging.ForRequest(h.logger, operation, requestID).Error(message,
		zap.Error(logging.WrapRef(operation, requestID, err)))
	h.respondError(c, http.StatusInternalServerError, message)
}

func (h *InferenceHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func (h *InferenceHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
