package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when the artifact string is empty or whitespace
	ErrEmptyContent = errors.New("qrcode: content cannot be empty")

	// ErrInvalidDataURI is returned when a data: URI cannot be decoded
	ErrInvalidDataURI = errors.New("qrcode: invalid data URI")

	// ErrGenerateFailed is returned when local QR generation fails
	ErrGenerateFailed = errors.New("qrcode: failed to generate QR code")
)

// defaultSize is the edge length in pixels used when no size is given.
const defaultSize = 256

// Generate renders content as a QR code PNG of the given size.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerateFailed, err)
	}
	return png, nil
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI extracts the raw image bytes from a base64 data: URI such as
// "data:image/png;base64,...".
func DecodeDataURI(uri string) ([]byte, error) {
	if !IsDataURI(uri) {
		return nil, ErrInvalidDataURI
	}
	_, payload, found := strings.Cut(uri, ",")
	if !found {
		return nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Join(ErrInvalidDataURI, err)
	}
	return data, nil
}

// DataURI wraps PNG bytes into an <img>-embeddable data: URI.
func DataURI(png []byte) string {
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png))
}

// ArtifactPNG converts a server-issued QR artifact into PNG bytes. Data URIs
// are decoded as-is; any other non-empty payload is rendered locally as a QR
// code of the given size.
func ArtifactPNG(artifact string, size int) ([]byte, error) {
	if strings.TrimSpace(artifact) == "" {
		return nil, ErrEmptyContent
	}
	if IsDataURI(artifact) {
		return DecodeDataURI(artifact)
	}
	return Generate(artifact, size)
}
