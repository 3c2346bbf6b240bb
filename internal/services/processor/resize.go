package processor

import (
	"image"

	"github.com/disintegration/imaging"
)

// fitImage scales img down so neither edge exceeds maxEdge.
func (p *ImageProcessor) fitImage(img image.Image) image.Image {
	w, h := p.bounds(img)
	if w <= p.maxEdge && h <= p.maxEdge {
		return img
	}
	return imaging.Fit(img, p.maxEdge, p.maxEdge, imaging.Lanczos)
}
