package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/alchemorsel/foodgram/internal/ports/inbound"
)

var (
	// ErrInvalidDataURI means the value is not data:<type>;base64,<payload>
	ErrInvalidDataURI = errors.New("image must be a base64 data URI")
	// ErrImageTooLarge means the decoded payload exceeds the size limit
	ErrImageTooLarge = errors.New("image exceeds the maximum size")
	// ErrUnsupportedImageType means the media type is not allowed
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

// DecodeDataURI decodes data:<type>;base64,<payload>. maxSize <= 0 disables
// the size check and an empty allowed list accepts any image/* type.
func DecodeDataURI(value string, maxSize int64, allowed []string) (*inbound.ImageUpload, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), "data:")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	contentType, encoding, ok := strings.Cut(header, ";")
	if !ok || encoding != "base64" {
		return nil, ErrInvalidDataURI
	}
	contentType = strings.ToLower(contentType)

	if !typeAllowed(contentType, allowed) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}

	if maxSize > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxSize+2 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidDataURI
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, ErrImageTooLarge
	}

	return &inbound.ImageUpload{Data: data, ContentType: contentType}, nil
}

func typeAllowed(contentType string, allowed []string) bool {
	if len(allowed) == 0 {
		return strings.HasPrefix(contentType, "image/")
	}
	for _, t := range allowed {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}
