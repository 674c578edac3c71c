package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"image-classify-bot/internal/models"
)

// Normalizer extracts an actionable image URL from a storage notification.
type Normalizer struct {
	log *logrus.Logger
}

func NewNormalizer(log *logrus.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// ImageURL derives the image URL for the notification. When the body arrives
// pre-parsed the accompanying type hint is trusted, even when the envelope
// carried no data; otherwise the raw bytes are decoded as an envelope. An
// unsupported event type is not an error: ok is false and the caller skips
// the request without publishing anything.
func (n *Normalizer) ImageURL(note *models.Notification) (url string, ok bool, err error) {
	eventType := note.TypeHint
	data := note.Data
	if !note.PreParsed {
		var env models.Envelope
		if err := json.Unmarshal(bytes.TrimSpace(note.Body), &env); err != nil {
			return "", false, models.ErrMalformedEvent(err)
		}
		eventType = env.EventType
		data = env.Data
	}

	n.log.WithField("kind", eventType).Info("got event")

	switch eventType {
	case models.EventTypeS3ObjectCreated:
		var payload models.S3ObjectPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", false, models.ErrMalformedEvent(err)
		}
		composed := fmt.Sprintf("https://s3.amazonaws.com/%s/%s", payload.Bucket.Name, payload.Object.Key)
		return strings.TrimSpace(composed), true, nil

	case models.EventTypeAzureBlobCreated:
		var payload models.BlobPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", false, models.ErrMalformedEvent(err)
		}
		return strings.TrimSpace(payload.URL), true, nil

	default:
		n.log.WithField("kind", eventType).Warn("unsupported event type")
		return "", false, nil
	}
}
