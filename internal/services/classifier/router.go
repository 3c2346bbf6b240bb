package classifier

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/phambaophuc/outfit-ml/internal/logging"
	"github.com/phambaophuc/outfit-ml/internal/models"
)

// ErrNoResult is reported when a classifier returns neither a result nor an error.
var ErrNoResult = errors.New("classifier returned no result")

// ResultCache stores serialized classification results.
// Get returns nil data and a nil error on a miss.
type ResultCache interface {
	GetFromCache(ctx context.Context, cacheKey string) ([]byte, error)
	SetCache(ctx context.Context, cacheKey string, data []byte) error
}

// Router sends an image to the primary classifier and falls back to the
// vision classifier when the primary is unsure or fails.
type Router struct {
	primary   Classifier
	fallback  Classifier
	threshold float64
	cache     ResultCache
	logger    *zap.Logger
}

func NewRouter(primary, fallback Classifier, threshold float64, cache ResultCache, logger *zap.Logger) *Router {
	return &Router{
		primary:   primary,
		fallback:  fallback,
		threshold: threshold,
		cache:     cache,
		logger:    logger.Named("classifier_router"),
	}
}

// NeedsFallback reports whether a primary confidence is below the threshold.
func (r *Router) NeedsFallback(confidence float64) bool {
	return confidence < r.threshold
}

func (r *Router) Classify(ctx context.Context, imageURL string) (*models.ClassificationResult, error) {
	key := CacheKey(imageURL)
	if cached := r.lookup(ctx, key); cached != nil {
		return cached, nil
	}

	result, err := r.route(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, result)
	return result, nil
}

func (r *Router) route(ctx context.Context, imageURL string) (*models.ClassificationResult, error) {
	opLogger := r.logger.With(zap.String("image_url", imageURL))

	primary, err := r.primary.Classify(ctx, imageURL)
	if err == nil {
		err = checkResult(primary)
	}
	if err == nil && !r.NeedsFallback(primary.Confidence) {
		return primary, nil
	}

	if err != nil {
		opLogger.Warn("Primary classifier failed, using fallback", zap.Error(err))
	} else {
		opLogger.Info("Primary confidence below threshold, using fallback",
			zap.Float64("confidence", primary.Confidence),
			zap.Float64("threshold", r.threshold))
	}

	fallback, fbErr := r.fallback.Classify(ctx, imageURL)
	if fbErr == nil {
		fbErr = checkResult(fallback)
	}
	if fbErr != nil {
		if err == nil {
			opLogger.Warn("Fallback classifier failed, keeping primary result", zap.Error(fbErr))
			return primary, nil
		}
		return nil, logging.Wrap("classifier.route", errors.Join(err, fbErr))
	}

	if err == nil && primary.Confidence >= fallback.Confidence {
		return primary, nil
	}
	return fallback, nil
}

func checkResult(result *models.ClassificationResult) error {
	if result == nil {
		return ErrNoResult
	}
	return result.Validate()
}

func (r *Router) lookup(ctx context.Context, key string) *models.ClassificationResult {
	if r.cache == nil {
		return nil
	}
	data, err := r.cache.GetFromCache(ctx, key)
	if err != nil {
		r.logger.Warn("Failed to read classification cache", zap.String("cache_key", key), zap.Error(err))
		return nil
	}
	if data == nil {
		return nil
	}

	var result models.ClassificationResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Warn("Failed to unmarshal cached classification", zap.Error(err))
		return nil
	}
	r.logger.Debug("Cache hit", zap.String("cache_key", key))
	return &result
}

func (r *Router) store(ctx context.Context, key string, result *models.ClassificationResult) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := r.cache.SetCache(ctx, key, data); err != nil {
		r.logger.Warn("Failed to cache classification", zap.String("cache_key", key), zap.Error(err))
	}
}

// CacheKey derives the cache key for a routed classification of imageURL.
func CacheKey(imageURL string) string {
	return fmt.Sprintf("ml_cache:classify:%x", md5.Sum([]byte(imageURL)))
}

// Timed wraps a classifier and logs how long each call took.
func Timed(c Classifier, name string, logger *zap.Logger) Classifier {
	return &timedClassifier{next: c, name: name, logger: logger}
}

type timedClassifier struct {
	next   Classifier
	name   string
	logger *zap.Logger
}

func (t *timedClassifier) Classify(ctx context.Context, imageURL string) (*models.ClassificationResult, error) {
	start := time.Now()
	result, err := t.next.Classify(ctx, imageURL)
	t.logger.Info("Classified image",
		zap.String("classifier", t.name),
		zap.String("image_url", imageURL),
		zap.Duration("latency", time.Since(start)),
		zap.Bool("ok", err == nil))
	return result, err
}
