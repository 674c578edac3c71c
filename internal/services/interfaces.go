package services

import (
	"context"

	"image-classify-bot/internal/classifier"
	"image-classify-bot/internal/models"
)

// ImageFetcher retrieves a remote resource into a local file.
type ImageFetcher interface {
	Download(ctx context.Context, url, targetPath string) error
}

// ImageClassifier ranks labels for a stored image.
type ImageClassifier interface {
	Classify(imagePath string, max int, threshold float64) ([]models.Prediction, error)
}

// StatusPublisher posts a status update with an attached image and returns a
// public URL for the published post.
type StatusPublisher interface {
	PublishWithMedia(ctx context.Context, text, imagePath string) (string, error)
}

// ClassifierSource reports the current classifier and whether it is ready to
// serve. Requests arriving before readiness are denied, not queued.
type ClassifierSource func() (ImageClassifier, bool)

// FromBootstrap adapts the bootstrap barrier into a ClassifierSource.
func FromBootstrap(b *classifier.Bootstrap) ClassifierSource {
	return func() (ImageClassifier, bool) {
		s := b.Snapshot()
		if !s.Ready() {
			return nil, false
		}
		return s.Model, true
	}
}
