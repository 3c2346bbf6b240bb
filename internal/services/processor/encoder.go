package processor

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// encodePNG writes img as PNG so the cleared background stays transparent.
func (p *ImageProcessor) encodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}
