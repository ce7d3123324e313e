package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	webp "github.com/chai2010/webp"
)

// ProbeDimensions reads just enough of data to report the image's natural
// pixel dimensions without decoding the full bitmap.
func ProbeDimensions(data []byte, contentType string) (Dimensions, error) {
	var cfg image.Config
	var err error

	switch normalizeType(contentType) {
	case "image/jpeg", "image/jpg":
		cfg, err = jpeg.DecodeConfig(bytes.NewReader(data))
	case "image/png":
		cfg, err = png.DecodeConfig(bytes.NewReader(data))
	case "image/gif":
		cfg, err = gif.DecodeConfig(bytes.NewReader(data))
	case "image/webp":
		cfg, err = webp.DecodeConfig(bytes.NewReader(data))
	default:
		return Dimensions{}, ErrUnsupportedType
	}
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode decodes the full bitmap for the declared media type.
func Decode(data []byte, contentType string) (image.Image, error) {
	var img image.Image
	var err error

	switch normalizeType(contentType) {
	case "image/jpeg", "image/jpg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/gif":
		img, err = gif.Decode(bytes.NewReader(data))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, ErrUnsupportedType
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, nil
}
