package models

import (
	"errors"
	"fmt"
)

type ClassificationSource string

const (
	SourceFashionCLIP ClassificationSource = "fashionclip"
	SourceVLM         ClassificationSource = "vlm"
	SourceStub        ClassificationSource = "stub"
	SourceStubVLM     ClassificationSource = "stub_vlm"
)

const (
	WarmthUltralight = "ultralight"
	WarmthLight      = "light"
	WarmthMedium     = "medium"
	WarmthHeavy      = "heavy"
	WarmthVeryHeavy  = "very_heavy"
)

var warmthLevels = map[string]bool{
	WarmthUltralight: true,
	WarmthLight:      true,
	WarmthMedium:     true,
	WarmthHeavy:      true,
	WarmthVeryHeavy:  true,
}

var (
	ErrEmptyCategory      = errors.New("category is required")
	ErrConfidenceRange    = errors.New("confidence must be within [0, 1]")
	ErrUnknownSource      = errors.New("unknown classification source")
	ErrUnknownWarmthLevel = errors.New("unknown warmth level")
)

// ClassificationResult describes a clothing item as seen by a classifier.
// Optional fields are nil when the classifier did not produce them.
type ClassificationResult struct {
	Category        string               `json:"category"`
	Subcategory     *string              `json:"subcategory"`
	Confidence      float64              `json:"confidence"`
	PrimaryColor    *string              `json:"primary_color"`
	SecondaryColors []string             `json:"secondary_colors"`
	Pattern         *string              `json:"pattern"`
	StyleTags       []string             `json:"style_tags"`
	WarmthLevel     *string              `json:"warmth_level"`
	Source          ClassificationSource `json:"source"`
}

func (c ClassificationSource) Valid() bool {
	switch c {
	case SourceFashionCLIP, SourceVLM, SourceStub, SourceStubVLM:
		return true
	}
	return false
}

// IsFallback reports whether the source is a vision-language model.
func (c ClassificationSource) IsFallback() bool {
	return c == SourceVLM || c == SourceStubVLM
}

func (r *ClassificationResult) Validate() error {
	if r.Category == "" {
		return ErrEmptyCategory
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: %v", ErrConfidenceRange, r.Confidence)
	}
	if !r.Source.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSource, r.Source)
	}
	if r.WarmthLevel != nil && !warmthLevels[*r.WarmthLevel] {
		return fmt.Errorf("%w: %q", ErrUnknownWarmthLevel, *r.WarmthLevel)
	}
	return nil
}

// StringPtr is a small helper for populating optional fields.
func StringPtr(s string) *string {
	return &s
}
