package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"image-classify-bot/internal/models"
)

// Fetcher streams remote images to local disk in bounded chunks.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	log      *logrus.Logger
}

func NewFetcher(timeout time.Duration, maxBytes int64, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		log:      log,
	}
}

// Download writes the resource at url to targetPath, creating parent
// directories as needed. Every transport failure is normalized into a single
// download-failed error carrying the URL. A partial file may remain on
// failure; workspace teardown removes it.
func (f *Fetcher) Download(ctx context.Context, url, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.warn(url, targetPath, err)
		return models.ErrDownloadFailed(url)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.warn(url, targetPath, err)
		return models.ErrDownloadFailed(url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		f.warn(url, targetPath, fmt.Errorf("unexpected status %d", resp.StatusCode))
		return models.ErrDownloadFailed(url)
	}

	out, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", targetPath, err)
	}
	defer out.Close()

	// io.Copy streams in fixed-size chunks; the extra byte detects overflow.
	written, err := io.Copy(out, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		f.warn(url, targetPath, err)
		return models.ErrDownloadFailed(url)
	}
	if written > f.maxBytes {
		f.warn(url, targetPath, fmt.Errorf("exceeds %d byte limit", f.maxBytes))
		return models.ErrDownloadFailed(url)
	}

	f.log.WithFields(logrus.Fields{
		"size_bytes":  written,
		"target_path": targetPath,
	}).Info("downloaded file successfully")

	return nil
}

func (f *Fetcher) warn(url, targetPath string, err error) {
	f.log.WithFields(logrus.Fields{
		"url":         url,
		"target_path": targetPath,
	}).WithError(err).Warn("failed to download file")
}
