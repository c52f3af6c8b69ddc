package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		mime string
		raw  []byte
	}{
		{"image/png", []byte{0x89, 0x50, 0x4e, 0x47}},
		{"image/jpeg", []byte("not really a jpeg but bytes are bytes")},
		{"image/webp", []byte{0x00}},
	}

	for _, tc := range cases {
		uri := EncodeDataURI(tc.mime, tc.raw)
		assert.True(t, IsImageDataURI(uri))

		mime, raw, err := DecodeDataURI(uri)
		require.NoError(t, err)
		assert.Equal(t, tc.mime, mime)
		assert.Equal(t, tc.raw, raw)
	}
}

func TestDecodeDataURIRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"data:;base64,aGVsbG8=",
		"data:image/png;base64,",
		"data:image/png,aGVsbG8=",
		"https://example.com/a.png",
		"aGVsbG8=",
	}

	for _, s := range cases {
		_, _, err := DecodeDataURI(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestDecodeDataURIRejectsBadBase64(t *testing.T) {
	_, _, err := DecodeDataURI("data:image/png;base64,!!!not-base64!!!")
	assert.Error(t, err)
}

func TestIsImageDataURI(t *testing.T) {
	valid := EncodeDataURI("image/png", []byte("pixels"))
	assert.True(t, IsImageDataURI(valid))

	invalid := []string{
		"",
		"https://example.com/photo.jpg",
		"/images/placeholder.png",
		"data:application/pdf;base64,aGVsbG8=",
		"data:image/png,aGVsbG8=",
		"data:image/PNG;base64,aGVsbG8=",
	}
	for _, s := range invalid {
		assert.False(t, IsImageDataURI(s), "input %q", s)
	}
}

func TestExtensionForMime(t *testing.T) {
	assert.Equal(t, "png", ExtensionForMime("image/png"))
	assert.Equal(t, "jpeg", ExtensionForMime("image/jpeg"))
	assert.Equal(t, "png", ExtensionForMime("png"))
}
