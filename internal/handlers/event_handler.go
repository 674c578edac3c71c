package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"image-classify-bot/internal/models"
	"image-classify-bot/internal/services"
	"image-classify-bot/pkg/lambda"
)

const cloudEventsContentType = "application/cloudevents+json"

// EventHandler adapts transport-level requests into pipeline notifications.
type EventHandler struct {
	pipeline *services.Pipeline
	log      *logrus.Logger
}

func NewEventHandler(pipeline *services.Pipeline, log *logrus.Logger) *EventHandler {
	return &EventHandler{pipeline: pipeline, log: log}
}

// HandleEvent processes one inbound notification. Bodies declared as
// structured CloudEvents are decoded here and handed to the pipeline
// pre-parsed with a type hint; any other body passes through raw for the
// normalizer to decode.
func (h *EventHandler) HandleEvent(ctx context.Context, req *lambda.Request) *lambda.Response {
	note := &models.Notification{Body: req.Body}

	if isCloudEvent(req.Headers) {
		var env models.Envelope
		if err := json.Unmarshal(req.Body, &env); err != nil {
			pe := models.ErrMalformedEvent(err)
			return &lambda.Response{StatusCode: pe.Status, ContentType: "text/plain", Body: pe.Message}
		}
		note = &models.Notification{PreParsed: true, TypeHint: env.EventType, Data: env.Data}
	}

	return h.pipeline.Handle(ctx, note)
}

func isCloudEvent(headers map[string]string) bool {
	for name, value := range headers {
		if strings.EqualFold(name, "Content-Type") &&
			strings.HasPrefix(strings.ToLower(value), cloudEventsContentType) {
			return true
		}
	}
	return false
}
