package processor

import (
	"bytes"
	"fmt"
	"image"
)

// ValidateImage checks size and that data decodes as an image whose
// declared dimensions stay within the pixel limit.
func (p *ImageProcessor) ValidateImage(data []byte, maxSize int64) error {
	if size := int64(len(data)); size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed size %d", size, maxSize)
	}

	_, err := p.decodeConfig(data)
	return err
}

// decodeConfig reads only the image header, so oversized images are
// rejected before any pixel buffer is allocated.
func (p *ImageProcessor) decodeConfig(data []byte) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, fmt.Errorf("invalid image format: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > int64(p.maxPixels) {
		return image.Config{}, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	return cfg, nil
}
