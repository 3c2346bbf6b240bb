package processor

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// removeBackground estimates the backdrop colour from the image border and
// clears every pixel connected to the border whose colour lies within the
// tolerance of it. It returns the masked image and the opaque pixel count.
func (p *ImageProcessor) removeBackground(img image.Image) (*image.NRGBA, int) {
	dst := imaging.Clone(img)
	w, h := p.bounds(dst)
	if w == 0 || h == 0 {
		return dst, 0
	}

	bg := borderColor(dst)
	limit := p.tolerance * math.Sqrt(3) * 255

	visited := make([]bool, w*h)
	queue := make([]image.Point, 0, 2*(w+h))
	push := func(x, y int) {
		i := y*w + x
		if visited[i] {
			return
		}
		visited[i] = true
		if colorDistance(dst, x, y, bg) <= limit {
			queue = append(queue, image.Pt(x, y))
		}
	}

	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}

	cleared := 0
	for len(queue) > 0 {
		pt := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i := dst.PixOffset(pt.X, pt.Y)
		dst.Pix[i+3] = 0
		cleared++

		if pt.X > 0 {
			push(pt.X-1, pt.Y)
		}
		if pt.X < w-1 {
			push(pt.X+1, pt.Y)
		}
		if pt.Y > 0 {
			push(pt.X, pt.Y-1)
		}
		if pt.Y < h-1 {
			push(pt.X, pt.Y+1)
		}
	}

	return dst, w*h - cleared
}

func borderColor(img *image.NRGBA) [3]float64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	var sum [3]float64
	n := 0
	add := func(x, y int) {
		i := img.PixOffset(x, y)
		sum[0] += float64(img.Pix[i])
		sum[1] += float64(img.Pix[i+1])
		sum[2] += float64(img.Pix[i+2])
		n++
	}
	for x := 0; x < w; x++ {
		add(x, 0)
		add(x, h-1)
	}
	for y := 1; y < h-1; y++ {
		add(0, y)
		add(w-1, y)
	}
	return [3]float64{sum[0] / float64(n), sum[1] / float64(n), sum[2] / float64(n)}
}

func colorDistance(img *image.NRGBA, x, y int, ref [3]float64) float64 {
	i := img.PixOffset(x, y)
	dr := float64(img.Pix[i]) - ref[0]
	dg := float64(img.Pix[i+1]) - ref[1]
	db := float64(img.Pix[i+2]) - ref[2]
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
