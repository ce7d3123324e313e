package pipeline

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	webp "github.com/chai2010/webp"
)

// Encode re-encodes img in the given media type. Quality (0-100) applies to
// lossy formats; PNG and GIF ignore it. Animated GIF inputs come out as a
// single frame, matching a canvas redraw.
func Encode(img image.Image, contentType string, quality int, w io.Writer) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrEncode)
	}
	if quality < 0 {
		quality = 0
	}
	if quality > 100 {
		quality = 100
	}

	var err error
	switch normalizeType(contentType) {
	case "image/jpeg", "image/jpg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "image/png":
		err = png.Encode(w, img)
	case "image/gif":
		err = gif.Encode(w, img, nil)
	case "image/webp":
		err = webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	default:
		return fmt.Errorf("%w: cannot re-encode %s", ErrEncode, contentType)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return nil
}
