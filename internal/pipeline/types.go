package pipeline

import "errors"

var (
	// ErrUnsupportedType is returned before any decode attempt when the
	// candidate's media type is not on the allow-list.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge is returned when the candidate exceeds the byte limit.
	ErrTooLarge = errors.New("file size too large")

	// ErrDecode wraps codec failures while probing or decoding.
	ErrDecode = errors.New("image decode failed")

	// ErrEncode wraps codec failures while re-encoding.
	ErrEncode = errors.New("image encode failed")

	// ErrInvalidDimensions is returned for zero-area images.
	ErrInvalidDimensions = errors.New("image dimensions out of range")
)

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Candidate is a user-supplied image blob plus its declared media type.
type Candidate struct {
	Data        []byte
	ContentType string
	Filename    string
}

// OptimizedImage is the immutable result of optimization. When the source
// already fits the bounding box, Payload is the original bytes unchanged.
type OptimizedImage struct {
	Payload    []byte
	Dimensions Dimensions
	ByteSize   int
}

// Bounding box and quality defaults, matching the upload contract.
const (
	DefaultMaxWidth  = 400
	DefaultMaxHeight = 400
	DefaultQuality   = 80

	// DefaultMaxBytes is the general upload limit; DirectMaxBytes is the
	// looser limit used by the direct upload path.
	DefaultMaxBytes = 5 * 1024 * 1024
	DirectMaxBytes  = 10 * 1024 * 1024
)

// SupportedTypes is the media type allow-list for uploads.
var SupportedTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
	"image/gif",
}
