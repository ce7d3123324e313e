package pipeline

import (
	"fmt"
	"strings"
)

// IsSupportedType reports whether contentType is on the allow-list.
func IsSupportedType(contentType string) bool {
	ct := normalizeType(contentType)
	for _, t := range SupportedTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// ValidateType checks the declared media type against the allow-list.
// The error message lists the supported types.
func ValidateType(contentType string) error {
	if !IsSupportedType(contentType) {
		return fmt.Errorf("%w: supported types are %s", ErrUnsupportedType, strings.Join(SupportedTypes, ", "))
	}
	return nil
}

// ValidateSize checks the byte length against maxBytes.
// The error message includes the configured limit.
func ValidateSize(size int64, maxBytes int64) error {
	if size > maxBytes {
		return fmt.Errorf("%w: maximum size is %.1fMB", ErrTooLarge, float64(maxBytes)/(1024*1024))
	}
	return nil
}

// normalizeType lower-cases the type and strips any parameters
// (e.g. "image/jpeg; charset=binary").
func normalizeType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
