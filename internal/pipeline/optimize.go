package pipeline

import (
	"bytes"
	"log"
)

// Optimizer validates an image candidate and shrinks it to fit the bounding
// box before upload. Results are immutable values; the original candidate is
// never mutated.
type Optimizer struct {
	MaxWidth  int
	MaxHeight int
	MaxBytes  int64
	Quality   int
}

// NewOptimizer returns an Optimizer with the standard bounding box, byte
// limit and quality.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		MaxBytes:  DefaultMaxBytes,
		Quality:   DefaultQuality,
	}
}

// Optimize runs the full sequence: type check, size check, dimension probe,
// target computation, then resize and re-encode when needed. Images already
// within the bounding box are returned byte-for-byte unchanged, so the
// operation is idempotent. No network access happens here; upload is the
// caller's separate step.
func (o *Optimizer) Optimize(c Candidate) (*OptimizedImage, error) {
	if err := ValidateType(c.ContentType); err != nil {
		return nil, err
	}
	if err := ValidateSize(int64(len(c.Data)), o.MaxBytes); err != nil {
		return nil, err
	}

	orig, err := ProbeDimensions(c.Data, c.ContentType)
	if err != nil {
		return nil, err
	}

	target, err := CalculateResizedDimensions(orig.Width, orig.Height, o.MaxWidth, o.MaxHeight)
	if err != nil {
		return nil, err
	}

	if target == orig {
		// Already within bounds: skip the decode/encode cost entirely.
		return &OptimizedImage{
			Payload:    c.Data,
			Dimensions: orig,
			ByteSize:   len(c.Data),
		}, nil
	}

	img, err := Decode(c.Data, c.ContentType)
	if err != nil {
		return nil, err
	}

	if ct := normalizeType(c.ContentType); ct == "image/jpeg" || ct == "image/jpg" {
		img = ApplyEXIFOrientation(img, c.Data)
		// A rotation may have swapped the axes; recompute from what we
		// will actually resample.
		b := img.Bounds()
		if b.Dx() != orig.Width || b.Dy() != orig.Height {
			target, err = CalculateResizedDimensions(b.Dx(), b.Dy(), o.MaxWidth, o.MaxHeight)
			if err != nil {
				return nil, err
			}
		}
	}

	resized := Resize(img, target)

	var buf bytes.Buffer
	if err := Encode(resized, c.ContentType, o.Quality, &buf); err != nil {
		return nil, err
	}

	log.Printf("pipeline: optimized %q %dx%d (%d bytes) -> %dx%d (%d bytes)",
		c.Filename, orig.Width, orig.Height, len(c.Data),
		target.Width, target.Height, buf.Len())

	return &OptimizedImage{
		Payload:    buf.Bytes(),
		Dimensions: target,
		ByteSize:   buf.Len(),
	}, nil
}
