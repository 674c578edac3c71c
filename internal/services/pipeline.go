package services

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"image-classify-bot/internal/adapters/scratch"
	"image-classify-bot/internal/models"
	"image-classify-bot/pkg/lambda"
)

const downloadedImageName = "downloaded_image.jpg"

// Pipeline sequences normalize, fetch, classify, announce for one event.
type Pipeline struct {
	classifier     ClassifierSource
	normalizer     *Normalizer
	fetcher        ImageFetcher
	announcer      *Announcer
	scratchDir     string
	maxPredictions int
	threshold      float64
	log            *logrus.Logger
}

// PipelineDeps wires the pipeline's collaborators.
type PipelineDeps struct {
	Classifier     ClassifierSource
	Normalizer     *Normalizer
	Fetcher        ImageFetcher
	Announcer      *Announcer
	ScratchDir     string
	MaxPredictions int
	Threshold      float64
	Log            *logrus.Logger
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		classifier:     deps.Classifier,
		normalizer:     deps.Normalizer,
		fetcher:        deps.Fetcher,
		announcer:      deps.Announcer,
		scratchDir:     deps.ScratchDir,
		maxPredictions: deps.MaxPredictions,
		threshold:      deps.Threshold,
		log:            deps.Log,
	}
}

// Handle runs one notification through the pipeline and always produces a
// plain-text response. The scratch workspace is created first,
// unconditionally, and removed on every exit path, panics included.
func (p *Pipeline) Handle(ctx context.Context, note *models.Notification) (resp *lambda.Response) {
	ws, err := scratch.New(p.scratchDir)
	if err != nil {
		return errorResponse(models.AsPipelineError(err))
	}
	defer ws.Remove(p.log)

	defer func() {
		if cause := recover(); cause != nil {
			p.log.WithField("cause", cause).Error("unexpected error occurred, responding with internal server error")
			resp = errorResponse(models.ErrUnexpected(cause, debug.Stack()))
		}
	}()

	cls, ready := p.classifier()
	if !ready {
		p.log.Warn("model data not done loading yet, denying request")
		return errorResponse(models.ErrNotReady())
	}

	imageURL, actionable, err := p.normalizer.ImageURL(note)
	if err != nil {
		return errorResponse(models.AsPipelineError(err))
	}
	if !actionable {
		return textResponse(http.StatusOK, "")
	}
	p.log.WithField("image_url", imageURL).Info("got image URL")

	imagePath := filepath.Join(ws.Dir(), downloadedImageName)
	if err := p.fetcher.Download(ctx, imageURL, imagePath); err != nil {
		return errorResponse(models.AsPipelineError(err))
	}

	results, err := cls.Classify(imagePath, p.maxPredictions, p.threshold)
	if err != nil {
		return errorResponse(models.AsPipelineError(err))
	}
	for _, r := range results {
		p.log.WithFields(logrus.Fields{"name": r.Label, "score": r.Score}).Info("found prediction")
	}
	if len(results) == 0 {
		return errorResponse(models.ErrLowConfidence())
	}

	postURL, err := p.announcer.Announce(ctx, results, imagePath)
	if err != nil {
		return errorResponse(models.AsPipelineError(err))
	}

	return textResponse(http.StatusOK, fmt.Sprintf("Tweet sent out! Go to %s", postURL))
}

func textResponse(status int, body string) *lambda.Response {
	return &lambda.Response{StatusCode: status, ContentType: "text/plain", Body: body}
}

func errorResponse(pe *models.PipelineError) *lambda.Response {
	return textResponse(pe.Status, pe.Message)
}
