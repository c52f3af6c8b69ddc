package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"jewelry-backend/internal/imaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploadService(t *testing.T) *UploadService {
	t.Helper()
	return NewUploadService(t.TempDir(), t.TempDir(), "/uploads")
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func multipartHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/image", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["image"][0]
}

func TestGenerateFileName(t *testing.T) {
	name := GenerateFileName("img", "png")
	assert.Regexp(t, regexp.MustCompile(`^img-\d+-\d+\.png$`), name)

	assert.Regexp(t, `\.jpeg$`, GenerateFileName("base64", ".jpeg"))
	assert.Regexp(t, `\.bin$`, GenerateFileName("img", ""))
}

func TestStoreMultipart(t *testing.T) {
	s := newTestUploadService(t)
	content := []byte("fake png bytes")
	fh := multipartHeader(t, "ring.png", "image/png", content)

	url, fileName, err := s.StoreMultipart(context.Background(), fh, "img")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/"+fileName, url)
	stored, err := os.ReadFile(filepath.Join(s.uploadDir, fileName))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	assert.Empty(t, dirEntries(t, s.tmpDir), "temp file must not survive ingestion")
}

func TestStoreMultipartRejectsOversize(t *testing.T) {
	s := newTestUploadService(t)
	fh := multipartHeader(t, "big.png", "image/png", []byte("tiny"))
	fh.Size = MaxImageBytes + 1

	_, _, err := s.StoreMultipart(context.Background(), fh, "img")
	assert.ErrorIs(t, err, ErrPayloadRejected)

	assert.Empty(t, dirEntries(t, s.uploadDir), "oversize upload must never reach permanent storage")
	assert.Empty(t, dirEntries(t, s.tmpDir), "oversize upload must never reach temporary storage")
}

func TestStoreMultipartRejectsNonImage(t *testing.T) {
	s := newTestUploadService(t)
	fh := multipartHeader(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4"))

	_, _, err := s.StoreMultipart(context.Background(), fh, "img")
	assert.ErrorIs(t, err, ErrPayloadRejected)
	assert.Empty(t, dirEntries(t, s.uploadDir))
	assert.Empty(t, dirEntries(t, s.tmpDir))
}

func TestInlineMultipart(t *testing.T) {
	s := newTestUploadService(t)
	content := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d}
	fh := multipartHeader(t, "photo.png", "image/png", content)

	dataURI, err := s.InlineMultipart(context.Background(), fh)
	require.NoError(t, err)

	mime, raw, err := imaging.DecodeDataURI(dataURI)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, content, raw)

	assert.Empty(t, dirEntries(t, s.uploadDir), "inline ingestion stores nothing permanently")
	assert.Empty(t, dirEntries(t, s.tmpDir), "temp file must not survive ingestion")
}

func TestStoreBase64(t *testing.T) {
	s := newTestUploadService(t)
	content := []byte("jpeg-ish bytes")
	dataURI := imaging.EncodeDataURI("image/jpeg", content)

	url, fileName, err := s.StoreBase64(context.Background(), dataURI, "base64")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/"+fileName, url)
	assert.Regexp(t, `^base64-\d+-\d+\.jpeg$`, fileName)

	stored, err := os.ReadFile(filepath.Join(s.uploadDir, fileName))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestStoreBase64RejectsInvalidInput(t *testing.T) {
	s := newTestUploadService(t)

	cases := []string{
		"",
		"https://example.com/a.png",
		"data:application/pdf;base64,aGVsbG8=",
		"data:image/png,aGVsbG8=",
	}
	for _, in := range cases {
		_, _, err := s.StoreBase64(context.Background(), in, "base64")
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", in)
	}

	assert.Empty(t, dirEntries(t, s.uploadDir))
}

func TestStoreFromURL(t *testing.T) {
	content := []byte("remote image bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write(content)
	}))
	defer server.Close()

	s := newTestUploadService(t)
	url, fileName, err := s.StoreFromURL(context.Background(), server.URL+"/photo.webp")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/"+fileName, url)
	assert.Regexp(t, `^url-\d+-\d+\.webp$`, fileName)

	stored, err := os.ReadFile(filepath.Join(s.uploadDir, fileName))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestStoreFromURLFetchFailures(t *testing.T) {
	s := newTestUploadService(t)

	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer notFound.Close()

	_, _, err := s.StoreFromURL(context.Background(), notFound.URL)
	assert.ErrorIs(t, err, ErrFetchFailed)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	}))
	defer empty.Close()

	_, _, err = s.StoreFromURL(context.Background(), empty.URL)
	assert.ErrorIs(t, err, ErrFetchFailed)

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	_, _, err = s.StoreFromURL(context.Background(), dead.URL)
	assert.ErrorIs(t, err, ErrFetchFailed)

	assert.Empty(t, dirEntries(t, s.uploadDir))
}

func TestStoreFromURLRejectsNonImageContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	s := newTestUploadService(t)
	_, _, err := s.StoreFromURL(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Empty(t, dirEntries(t, s.uploadDir))
}
