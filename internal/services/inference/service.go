package inference

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/phambaophuc/outfit-ml/internal/models"
	"github.com/phambaophuc/outfit-ml/internal/services/classifier"
	"github.com/phambaophuc/outfit-ml/internal/services/processor"
)

var (
	ErrUnknownJobKind  = errors.New("unknown job kind")
	ErrMissingImageURL = errors.New("image_url is required")
	ErrInvalidResult   = errors.New("backend returned an invalid result")
)

// HealthProber reports GPU availability.
type HealthProber interface {
	Check(ctx context.Context) *models.HealthCheckResult
}

// Service is the single entry point for the inference operations. The
// backends behind it are swappable without touching callers.
type Service struct {
	probe        HealthProber
	primary      classifier.Classifier
	fallback     classifier.Classifier
	routed       classifier.Classifier
	remover      processor.BackgroundRemover
	batchWorkers int
	logger       *zap.Logger
}

func NewService(
	probe HealthProber,
	primary classifier.Classifier,
	fallback classifier.Classifier,
	routed classifier.Classifier,
	remover processor.BackgroundRemover,
	batchWorkers int,
	logger *zap.Logger,
) *Service {
	return &Service{
		probe:        probe,
		primary:      primary,
		fallback:     fallback,
		routed:       routed,
		remover:      remover,
		batchWorkers: batchWorkers,
		logger:       logger.Named("inference"),
	}
}

func (s *Service) HealthCheck(ctx context.Context) *models.HealthCheckResult {
	s.logger.Info("Running GPU health check")
	return s.probe.Check(ctx)
}

func (s *Service) ClassifyItem(ctx context.Context, imageURL string) (*models.ClassificationResult, error) {
	return s.classify(ctx, s.primary, "classify_item", imageURL)
}

func (s *Service) ClassifyWithVLM(ctx context.Context, imageURL string) (*models.ClassificationResult, error) {
	return s.classify(ctx, s.fallback, "classify_with_vlm", imageURL)
}

// Classify runs the confidence-routed classifier.
func (s *Service) Classify(ctx context.Context, imageURL string) (*models.ClassificationResult, error) {
	return s.classify(ctx, s.routed, "classify", imageURL)
}

func (s *Service) RemoveBackground(ctx context.Context, imageURL string) (*models.BackgroundRemovalResult, error) {
	s.logger.Info("Removing background", zap.String("image_url", imageURL))

	result, err := s.remover.RemoveBackground(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrInvalidResult
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	return result, nil
}

func (s *Service) RemoveBackgrounds(ctx context.Context, imageURLs []string) *models.BatchRemoveResponse {
	results := processor.BatchRemove(ctx, s.remover, imageURLs, s.batchWorkers)

	resp := &models.BatchRemoveResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	s.logger.Info("Batch background removal finished",
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed))
	return resp
}

// Run executes one operation by job kind and returns its record.
func (s *Service) Run(ctx context.Context, kind models.JobKind, imageURL string) (interface{}, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobKind, kind)
	}
	if kind.NeedsImage() && imageURL == "" {
		return nil, ErrMissingImageURL
	}

	switch kind {
	case models.JobHealthCheck:
		return s.HealthCheck(ctx), nil
	case models.JobClassifyItem:
		return s.ClassifyItem(ctx, imageURL)
	case models.JobClassifyWithVLM:
		return s.ClassifyWithVLM(ctx, imageURL)
	case models.JobClassifyRouted:
		return s.Classify(ctx, imageURL)
	default:
		return s.RemoveBackground(ctx, imageURL)
	}
}

func (s *Service) classify(ctx context.Context, c classifier.Classifier, operation, imageURL string) (*models.ClassificationResult, error) {
	s.logger.Info("Classifying image", zap.String("operation", operation), zap.String("image_url", imageURL))

	result, err := c.Classify(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, classifier.ErrNoResult
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	return result, nil
}
