package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxEdge   = 2048
	DefaultMaxPixels = 40_000_000
	DefaultTolerance = 0.12
)

var (
	ErrNoSubject     = errors.New("no foreground subject found")
	ErrImageTooLarge = errors.New("image dimensions exceed the pixel limit")
)

// ImageProcessor cuts the subject out of product photos shot against a
// plain backdrop.
type ImageProcessor struct {
	maxEdge   int
	maxPixels int
	tolerance float64
}

func NewImageProcessor(maxEdge, maxPixels int, tolerance float64) *ImageProcessor {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if tolerance <= 0 || tolerance >= 1 {
		tolerance = DefaultTolerance
	}
	return &ImageProcessor{maxEdge: maxEdge, maxPixels: maxPixels, tolerance: tolerance}
}

// Cutout decodes data, removes the background and returns the subject as a
// PNG with transparency.
func (p *ImageProcessor) Cutout(data []byte) (*bytes.Buffer, error) {
	if _, err := p.decodeConfig(data); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	fitted := p.fitImage(img)
	masked, opaque := p.removeBackground(fitted)
	if opaque == 0 {
		return nil, ErrNoSubject
	}

	buffer := &bytes.Buffer{}
	if err := p.encodePNG(buffer, p.cropToContent(masked)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buffer, nil
}

func (p *ImageProcessor) bounds(img image.Image) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
