package server

import (
	"github.com/sirupsen/logrus"

	"image-classify-bot/internal/adapters/twitter"
	"image-classify-bot/internal/classifier"
	"image-classify-bot/internal/config"
	"image-classify-bot/internal/handlers"
	"image-classify-bot/internal/services"
)

// Container wires configuration into the event pipeline shared by the Lambda
// and local-server entry points. Building it kicks off the background
// classifier bootstrap; requests are denied until that finishes.
type Container struct {
	Config    *config.Config
	Log       *logrus.Logger
	Bootstrap *classifier.Bootstrap
	Handler   *handlers.EventHandler
}

// NewContainer creates the dependency container and starts the bootstrap.
func NewContainer(cfg *config.Config) (*Container, error) {
	log := newLogger(cfg)

	bootstrap := classifier.NewBootstrap(log)
	bootstrap.Start(classifier.DefaultLoader(cfg.Model))

	publisher := twitter.NewClient(cfg.Twitter, log)
	pipeline := services.NewPipeline(services.PipelineDeps{
		Classifier:     services.FromBootstrap(bootstrap),
		Normalizer:     services.NewNormalizer(log),
		Fetcher:        services.NewFetcher(cfg.Download.Timeout, cfg.Download.MaxBytes, log),
		Announcer:      services.NewAnnouncer(publisher, log),
		ScratchDir:     cfg.ScratchDir,
		MaxPredictions: cfg.Model.MaxPredictions,
		Threshold:      cfg.Model.ConfidenceThreshold,
		Log:            log,
	})

	return &Container{
		Config:    cfg,
		Log:       log,
		Bootstrap: bootstrap,
		Handler:   handlers.NewEventHandler(pipeline, log),
	}, nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}
