// Package qrcode turns the QR artifact the server hands the client into PNG
// bytes a front-end can display.
//
// The server returns either a data-URI (base64-encoded image) or a raw
// payload string. ArtifactPNG decodes the former directly and renders the
// latter locally as a QR code via github.com/skip2/go-qrcode.
//
//	png, err := qrcode.ArtifactPNG(artifact, 280)
//	if err != nil {
//	    // artifact unusable
//	}
//
// Sentinel errors (ErrEmptyContent, ErrInvalidDataURI, ErrGenerateFailed)
// support errors.Is comparisons.
package qrcode
