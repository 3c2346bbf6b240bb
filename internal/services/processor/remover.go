package processor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phambaophuc/outfit-ml/internal/logging"
	"github.com/phambaophuc/outfit-ml/internal/models"
	"github.com/phambaophuc/outfit-ml/pkg/utils"
)

const DefaultWorkers = 5

// BackgroundRemover produces a background-free version of an image.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, imageURL string) (*models.BackgroundRemovalResult, error)
}

type ImageFetcher interface {
	FetchImage(ctx context.Context, locator string, maxSize int64) ([]byte, string, error)
}

type Uploader interface {
	Upload(ctx context.Context, buffer *bytes.Buffer, filename, contentType string) (string, error)
}

// StubRemover derives the processed locator by suffix substitution and
// never touches the image.
type StubRemover struct {
	logger *zap.Logger
}

func NewStubRemover(logger *zap.Logger) *StubRemover {
	return &StubRemover{logger: logger.Named("stub_remover")}
}

func (s *StubRemover) RemoveBackground(ctx context.Context, imageURL string) (*models.BackgroundRemovalResult, error) {
	if imageURL == "" {
		return failure(imageURL, "image_url is empty"), nil
	}

	processed := utils.NoBackgroundLocator(imageURL)
	if processed == imageURL {
		// Reported as success anyway; callers currently rely on it.
		s.logger.Warn("Locator has no .jpg/.jpeg suffix, processed URL unchanged", zap.String("image_url", imageURL))
	}
	return models.NewBackgroundRemovalSuccess(imageURL, processed)
}

// SegmentingRemover downloads the image, cuts out the subject and uploads
// the PNG. Per-image faults come back as failure records, not errors.
type SegmentingRemover struct {
	processor *ImageProcessor
	fetcher   ImageFetcher
	uploader  Uploader
	maxSize   int64
	logger    *zap.Logger
}

func NewSegmentingRemover(processor *ImageProcessor, fetcher ImageFetcher, uploader Uploader, maxSize int64, logger *zap.Logger) *SegmentingRemover {
	return &SegmentingRemover{
		processor: processor,
		fetcher:   fetcher,
		uploader:  uploader,
		maxSize:   maxSize,
		logger:    logger.Named("segmenting_remover"),
	}
}

func (s *SegmentingRemover) RemoveBackground(ctx context.Context, imageURL string) (*models.BackgroundRemovalResult, error) {
	start := time.Now()
	opLogger := s.logger.With(zap.String("image_url", imageURL))

	processedURL, err := s.process(ctx, imageURL)
	if err != nil {
		opLogger.Warn("Background removal failed", zap.Error(err))
		return models.NewBackgroundRemovalFailure(imageURL, err.Error())
	}

	opLogger.Info("Background removed", zap.String("processed_url", processedURL), zap.Duration("latency", time.Since(start)))
	return models.NewBackgroundRemovalSuccess(imageURL, processedURL)
}

func (s *SegmentingRemover) process(ctx context.Context, imageURL string) (string, error) {
	if imageURL == "" {
		return "", logging.Wrap("remover.fetch", fmt.Errorf("image_url is empty"))
	}

	data, _, err := s.fetcher.FetchImage(ctx, imageURL, s.maxSize)
	if err != nil {
		return "", logging.Wrap("remover.fetch", err)
	}
	if err := s.processor.ValidateImage(data, s.maxSize); err != nil {
		return "", logging.Wrap("remover.validate", err)
	}

	buffer, err := s.processor.Cutout(data)
	if err != nil {
		return "", logging.Wrap("remover.cutout", err)
	}

	url, err := s.uploader.Upload(ctx, buffer, utils.NoBackgroundFilename(imageURL), "image/png")
	if err != nil {
		return "", logging.Wrap("remover.upload", err)
	}
	if url == "" {
		return "", logging.Wrap("remover.upload", fmt.Errorf("storage returned an empty url"))
	}
	return url, nil
}

// BatchRemove runs remover over imageURLs with a bounded worker pool.
// Results keep the order of imageURLs.
func BatchRemove(ctx context.Context, remover BackgroundRemover, imageURLs []string, workers int) []*models.BackgroundRemovalResult {
	results := make([]*models.BackgroundRemovalResult, len(imageURLs))
	if len(imageURLs) == 0 {
		return results
	}

	numWorkers := workers
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}

	var g errgroup.Group
	g.SetLimit(numWorkers)
	for i, imageURL := range imageURLs {
		i, imageURL := i, imageURL
		g.Go(func() error {
			results[i] = removeOne(ctx, remover, imageURL)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func removeOne(ctx context.Context, remover BackgroundRemover, imageURL string) *models.BackgroundRemovalResult {
	if err := ctx.Err(); err != nil {
		return failure(imageURL, err.Error())
	}
	result, err := remover.RemoveBackground(ctx, imageURL)
	if err != nil {
		return failure(imageURL, err.Error())
	}
	return result
}

// failure builds a failure record without validation so an empty locator
// in a batch still gets a slot in the response.
func failure(imageURL, message string) *models.BackgroundRemovalResult {
	return &models.BackgroundRemovalResult{OriginalURL: imageURL, Error: &message}
}
