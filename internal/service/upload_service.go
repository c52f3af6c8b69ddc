package service

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jewelry-backend/internal/imaging"
	"jewelry-backend/internal/util"

	"go.uber.org/zap"
)

// MaxImageBytes is the upper bound on any ingested image payload.
const MaxImageBytes = 5 << 20 // 5 MiB

// UploadService is the image ingestion pipeline. Three input paths
// (multipart upload, base64 payload, remote URL fetch) converge on one
// storage representation: a file in the upload directory addressed by a
// public URL, or an inline data-URI for callers that embed images in the
// document.
type UploadService struct {
	uploadDir  string
	tmpDir     string
	publicPath string
	maxBytes   int64
	client     *http.Client
	logger     *zap.Logger
}

// NewUploadService creates an upload service rooted at the given permanent
// and temporary directories. publicPath is the URL prefix under which the
// permanent directory is served.
func NewUploadService(uploadDir, tmpDir, publicPath string) *UploadService {
	return &UploadService{
		uploadDir:  uploadDir,
		tmpDir:     tmpDir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
		maxBytes:   MaxImageBytes,
		client:     &http.Client{Timeout: 20 * time.Second},
		logger:     util.GetLogger(),
	}
}

// GenerateFileName builds a collision-resistant file name from a prefix
// naming the ingestion path, a millisecond timestamp, a random suffix and
// the extension. The random component makes concurrent collisions
// probabilistically safe, not guaranteed.
func GenerateFileName(prefix, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s-%d-%d.%s", prefix, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}

func (s *UploadService) publicURL(fileName string) string {
	return s.publicPath + "/" + fileName
}

// checkHeader enforces the size and MIME gates before any bytes touch disk.
func (s *UploadService) checkHeader(fh *multipart.FileHeader) error {
	if fh.Size > s.maxBytes {
		util.ImagesRejectedTotal.WithLabelValues("oversize").Inc()
		return fmt.Errorf("%w: file exceeds %d bytes", ErrPayloadRejected, s.maxBytes)
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		util.ImagesRejectedTotal.WithLabelValues("wrong_type").Inc()
		return fmt.Errorf("%w: unsupported content type %q", ErrPayloadRejected, contentType)
	}
	return nil
}

// saveTemp copies the uploaded file into the temporary directory and
// returns its path. The caller owns cleanup via removeTemp.
func (s *UploadService) saveTemp(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(s.tmpDir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		s.removeTemp(tmp.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.removeTemp(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return tmp.Name(), nil
}

// removeTemp deletes a temporary artifact. Failure is logged and counted
// but never fails the request.
func (s *UploadService) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		util.TempFileCleanupFailures.Inc()
		s.logger.Warn("Failed to remove temp upload file",
			zap.String("path", path),
			zap.Error(err))
	}
}

// StoreMultipart ingests a multipart upload into permanent storage and
// returns its public URL and generated file name. The temporary landing
// file is removed on every path.
func (s *UploadService) StoreMultipart(ctx context.Context, fh *multipart.FileHeader, prefix string) (string, string, error) {
	_, span := util.StartSpan(ctx, "UploadService.StoreMultipart")
	defer span.End()

	start := time.Now()
	defer func() { util.ImageIngestLatency.Observe(time.Since(start).Seconds()) }()

	if err := s.checkHeader(fh); err != nil {
		return "", "", err
	}

	tmpPath, err := s.saveTemp(fh)
	if err != nil {
		return "", "", err
	}
	defer s.removeTemp(tmpPath)

	ext := strings.TrimPrefix(filepath.Ext(fh.Filename), ".")
	if ext == "" {
		ext = imaging.ExtensionForMime(fh.Header.Get("Content-Type"))
	}
	fileName := GenerateFileName(prefix, ext)

	if err := copyFile(tmpPath, filepath.Join(s.uploadDir, fileName)); err != nil {
		return "", "", fmt.Errorf("failed to store upload: %w", err)
	}

	util.ImagesIngestedTotal.WithLabelValues("multipart").Inc()
	return s.publicURL(fileName), fileName, nil
}

// InlineMultipart ingests a multipart upload and returns it as a data-URI
// instead of storing it permanently. Used by callers that embed images in
// the product document.
func (s *UploadService) InlineMultipart(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	_, span := util.StartSpan(ctx, "UploadService.InlineMultipart")
	defer span.End()

	if err := s.checkHeader(fh); err != nil {
		return "", err
	}

	tmpPath, err := s.saveTemp(fh)
	if err != nil {
		return "", err
	}
	defer s.removeTemp(tmpPath)

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read temp file: %w", err)
	}

	util.ImagesIngestedTotal.WithLabelValues("multipart").Inc()
	return imaging.EncodeDataURI(fh.Header.Get("Content-Type"), raw), nil
}

// StoreBase64 ingests a base64 data-URI into permanent storage. The
// data-URI gate is the sole validation applied.
func (s *UploadService) StoreBase64(ctx context.Context, dataURI, prefix string) (string, string, error) {
	_, span := util.StartSpan(ctx, "UploadService.StoreBase64")
	defer span.End()

	url, fileName, err := s.storeDataURI(dataURI, prefix)
	if err != nil {
		return "", "", err
	}

	util.ImagesIngestedTotal.WithLabelValues("base64").Inc()
	return url, fileName, nil
}

func (s *UploadService) storeDataURI(dataURI, prefix string) (string, string, error) {
	if !imaging.IsImageDataURI(dataURI) {
		util.ImagesRejectedTotal.WithLabelValues("invalid_format").Inc()
		return "", "", ErrInvalidFormat
	}

	mimeType, raw, err := imaging.DecodeDataURI(dataURI)
	if err != nil {
		util.ImagesRejectedTotal.WithLabelValues("invalid_format").Inc()
		return "", "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if int64(len(raw)) > s.maxBytes {
		util.ImagesRejectedTotal.WithLabelValues("oversize").Inc()
		return "", "", fmt.Errorf("%w: image exceeds %d bytes", ErrPayloadRejected, s.maxBytes)
	}

	fileName := GenerateFileName(prefix, imaging.ExtensionForMime(mimeType))
	if err := os.WriteFile(filepath.Join(s.uploadDir, fileName), raw, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to store image: %w", err)
	}
	return s.publicURL(fileName), fileName, nil
}

// StoreFromURL fetches a remote image, synthesizes a data-URI from the
// bytes and Content-Type header, and proceeds exactly as the base64 path.
// Fetch failures surface as ErrFetchFailed, never a panic.
func (s *UploadService) StoreFromURL(ctx context.Context, rawURL string) (string, string, error) {
	ctx, span := util.StartSpan(ctx, "UploadService.StoreFromURL")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		util.ImagesRejectedTotal.WithLabelValues("fetch_failed").Inc()
		return "", "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		util.ImagesRejectedTotal.WithLabelValues("fetch_failed").Inc()
		return "", "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		util.ImagesRejectedTotal.WithLabelValues("fetch_failed").Inc()
		return "", "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil || len(body) == 0 {
		util.ImagesRejectedTotal.WithLabelValues("fetch_failed").Inc()
		return "", "", fmt.Errorf("%w: no usable body", ErrFetchFailed)
	}
	if int64(len(body)) > s.maxBytes {
		util.ImagesRejectedTotal.WithLabelValues("oversize").Inc()
		return "", "", fmt.Errorf("%w: image exceeds %d bytes", ErrPayloadRejected, s.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	dataURI := imaging.EncodeDataURI(contentType, body)
	url, fileName, err := s.storeDataURI(dataURI, "url")
	if err != nil {
		return "", "", err
	}

	util.ImagesIngestedTotal.WithLabelValues("url").Inc()
	return url, fileName, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
