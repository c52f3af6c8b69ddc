// Package imaging converts between raw image bytes, base64 data-URIs and
// the values stored alongside products. It is pure and holds no state.
package imaging

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

var (
	dataURIPattern   = regexp.MustCompile(`^data:([^;,]+);base64,(.+)$`)
	imageURIPattern  = regexp.MustCompile(`^data:image/[a-z]+;base64,.+$`)
	errInvalidFormat = fmt.Errorf("invalid data URI format")
)

// DecodeDataURI splits a data:<mime>;base64,<payload> string into its MIME
// type and decoded bytes. Anything that does not match the pattern fails.
func DecodeDataURI(s string) (string, []byte, error) {
	m := dataURIPattern.FindStringSubmatch(s)
	if m == nil {
		return "", nil, errInvalidFormat
	}

	raw, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return m[1], raw, nil
}

// EncodeDataURI is the inverse of DecodeDataURI.
func EncodeDataURI(mimeType string, raw []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw))
}

// IsImageDataURI reports whether s is a base64 data-URI with an image MIME
// type. This is the sole validity gate before a base64 image is accepted.
func IsImageDataURI(s string) bool {
	return imageURIPattern.MatchString(s)
}

// ExtensionForMime returns the subtype segment of a MIME type, used to name
// stored files ("png" for "image/png"). No validation beyond the data-URI
// gate happens here.
func ExtensionForMime(mimeType string) string {
	if idx := strings.Index(mimeType, "/"); idx >= 0 {
		return mimeType[idx+1:]
	}
	return mimeType
}
