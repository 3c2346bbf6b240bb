package classifier

import (
	"context"

	"github.com/phambaophuc/outfit-ml/internal/models"
)

// Classifier labels the clothing item found at an image locator.
type Classifier interface {
	Classify(ctx context.Context, imageURL string) (*models.ClassificationResult, error)
}

// PrimaryStub stands in for the FashionCLIP classifier and always returns
// the same record.
type PrimaryStub struct{}

func NewPrimaryStub() *PrimaryStub {
	return &PrimaryStub{}
}

func (PrimaryStub) Classify(ctx context.Context, imageURL string) (*models.ClassificationResult, error) {
	return &models.ClassificationResult{
		Category:        "T-Shirt",
		Subcategory:     models.StringPtr("Crew Neck"),
		Confidence:      0.95,
		PrimaryColor:    models.StringPtr("#2563eb"),
		SecondaryColors: []string{"#ffffff"},
		Pattern:         models.StringPtr("solid"),
		StyleTags:       []string{"casual", "everyday"},
		WarmthLevel:     models.StringPtr(models.WarmthLight),
		Source:          models.SourceStub,
	}, nil
}

// VisionStub stands in for the vision-language fallback classifier.
type VisionStub struct{}

func NewVisionStub() *VisionStub {
	return &VisionStub{}
}

func (VisionStub) Classify(ctx context.Context, imageURL string) (*models.ClassificationResult, error) {
	return &models.ClassificationResult{
		Category:     "Dress",
		Subcategory:  models.StringPtr("Midi Dress"),
		Confidence:   0.88,
		PrimaryColor: models.StringPtr("#1e3a5f"),
		Pattern:      models.StringPtr("floral"),
		StyleTags:    []string{"formal", "elegant"},
		WarmthLevel:  models.StringPtr(models.WarmthLight),
		Source:       models.SourceStubVLM,
	}, nil
}
