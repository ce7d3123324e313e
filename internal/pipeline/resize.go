package pipeline

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// CalculateResizedDimensions computes target dimensions that fit within
// maxWidth x maxHeight while preserving aspect ratio. Images already within
// the box are returned unchanged. Scaling fits the binding axis first and
// re-derives the other; when that overshoots the remaining bound a second
// corrective pass fixes it, which is always sufficient because only one axis
// can still be out of bounds after the first pass. Dimensions are rounded to
// the nearest pixel and clamped so the box is never exceeded.
func CalculateResizedDimensions(origWidth, origHeight, maxWidth, maxHeight int) (Dimensions, error) {
	if origWidth <= 0 || origHeight <= 0 {
		return Dimensions{}, ErrInvalidDimensions
	}

	if origWidth <= maxWidth && origHeight <= maxHeight {
		return Dimensions{Width: origWidth, Height: origHeight}, nil
	}

	aspect := float64(origWidth) / float64(origHeight)
	var w, h int

	if origWidth > origHeight {
		// Landscape: width is binding.
		w = maxWidth
		h = int(math.Round(float64(w) / aspect))
		if h > maxHeight {
			h = maxHeight
			w = int(math.Round(float64(h) * aspect))
			if w > maxWidth {
				w = maxWidth
			}
		}
	} else {
		// Portrait or square: height is binding.
		h = maxHeight
		w = int(math.Round(float64(h) * aspect))
		if w > maxWidth {
			w = maxWidth
			h = int(math.Round(float64(w) / aspect))
			if h > maxHeight {
				h = maxHeight
			}
		}
	}

	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	return Dimensions{Width: w, Height: h}, nil
}

// Resize resamples img to exactly target dimensions with Lanczos filtering.
func Resize(img image.Image, target Dimensions) image.Image {
	if img == nil {
		return nil
	}
	return imaging.Resize(img, target.Width, target.Height, imaging.Lanczos)
}
