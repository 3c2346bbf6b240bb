package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/phambaophuc/outfit-ml/internal/models"
	"github.com/phambaophuc/outfit-ml/internal/services/classifier"
	"github.com/phambaophuc/outfit-ml/internal/services/processor"
	"go.uber.org/zap"
)

type stubProbe struct {
	result *models.HealthCheckResult
}

func (p stubProbe) Check(context.Context) *models.HealthCheckResult {
	return p.result
}

type brokenClassifier struct{}

func (brokenClassifier) Classify(context.Context, string) (*models.ClassificationResult, error) {
	return &models.ClassificationResult{Category: "", Confidence: 2, Source: "magic"}, nil
}

type emptyClassifier struct{}

func (emptyClassifier) Classify(context.Context, string) (*models.ClassificationResult, error) {
	return nil, nil
}

func newTestService() *Service {
	logger := zap.NewNop()
	primary := classifier.NewPrimaryStub()
	fallback := classifier.NewVisionStub()
	return NewService(
		stubProbe{result: models.NewHealthError("nvidia-smi not found - GPU drivers not installed")},
		primary,
		fallback,
		classifier.NewRouter(primary, fallback, 0.75, nil, logger),
		processor.NewStubRemover(logger),
		2,
		logger,
	)
}

func TestClassifyEndpointsReturnStubRecords(t *testing.T) {
	s := newTestService()

	item, err := s.ClassifyItem(context.Background(), "https://cdn.example.com/shirt.jpg")
	if err != nil {
		t.Fatalf("classify item: %v", err)
	}
	if item.Category != "T-Shirt" || item.Source != models.SourceStub {
		t.Fatalf("unexpected primary result: %+v", item)
	}

	vlm, err := s.ClassifyWithVLM(context.Background(), "https://cdn.example.com/dress.jpg")
	if err != nil {
		t.Fatalf("classify with vlm: %v", err)
	}
	if vlm.Category != "Dress" || vlm.Source != models.SourceStubVLM || vlm.SecondaryColors != nil {
		t.Fatalf("unexpected vision result: %+v", vlm)
	}

	routed, err := s.Classify(context.Background(), "https://cdn.example.com/shirt.jpg")
	if err != nil {
		t.Fatalf("routed classify: %v", err)
	}
	if routed.Source != models.SourceStub {
		t.Fatalf("confident primary should not be routed, got %s", routed.Source)
	}
}

func TestClassifyRejectsInvalidRecord(t *testing.T) {
	s := newTestService()
	s.primary = brokenClassifier{}

	if _, err := s.ClassifyItem(context.Background(), "a.jpg"); !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult, got %v", err)
	}
}

func TestClassifyRejectsNilRecord(t *testing.T) {
	s := newTestService()
	s.fallback = emptyClassifier{}

	if _, err := s.ClassifyWithVLM(context.Background(), "a.jpg"); !errors.Is(err, classifier.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestRemoveBackgroundAndBatch(t *testing.T) {
	s := newTestService()

	result, err := s.RemoveBackground(context.Background(), "https://cdn.example.com/coat.jpeg")
	if err != nil {
		t.Fatalf("remove background: %v", err)
	}
	if !result.Success || *result.ProcessedURL != "https://cdn.example.com/coat_nobg.png" {
		t.Fatalf("unexpected result: %+v", result)
	}

	batch := s.RemoveBackgrounds(context.Background(), []string{"a.jpg", "b.png", "c.jpeg"})
	if len(batch.Results) != 3 || batch.Succeeded != 3 || batch.Failed != 0 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
	if batch.Results[1].OriginalURL != "b.png" {
		t.Fatalf("batch order not preserved: %+v", batch.Results[1])
	}
}

func TestRunDispatchesByKind(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	out, err := s.Run(ctx, models.JobHealthCheck, "")
	if err != nil {
		t.Fatalf("health job: %v", err)
	}
	if health, ok := out.(*models.HealthCheckResult); !ok || health.Status != models.StatusError {
		t.Fatalf("unexpected health output: %#v", out)
	}

	out, err = s.Run(ctx, models.JobClassifyWithVLM, "a.jpg")
	if err != nil {
		t.Fatalf("vlm job: %v", err)
	}
	if res, ok := out.(*models.ClassificationResult); !ok || res.Source != models.SourceStubVLM {
		t.Fatalf("unexpected vlm output: %#v", out)
	}

	out, err = s.Run(ctx, models.JobRemoveBackground, "a.jpg")
	if err != nil {
		t.Fatalf("remove job: %v", err)
	}
	if _, ok := out.(*models.BackgroundRemovalResult); !ok {
		t.Fatalf("unexpected remove output: %#v", out)
	}
}

func TestRunValidatesInput(t *testing.T) {
	s := newTestService()

	if _, err := s.Run(context.Background(), "resize", "a.jpg"); !errors.Is(err, ErrUnknownJobKind) {
		t.Fatalf("expected ErrUnknownJobKind, got %v", err)
	}
	if _, err := s.Run(context.Background(), models.JobClassifyItem, ""); !errors.Is(err, ErrMissingImageURL) {
		t.Fatalf("expected ErrMissingImageURL, got %v", err)
	}
}
