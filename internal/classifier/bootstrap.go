package classifier

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"image-classify-bot/internal/config"
)

// State is the immutable result of the bootstrap, published exactly once.
// Either Err is set and the process can never serve, or Model and Labels are
// set and safe for unsynchronized concurrent reads.
type State struct {
	Model  *Model
	Labels LabelMap
	Err    error
}

// Loader produces the classifier state. Injectable so tests can bootstrap
// without model artifacts.
type Loader func() (*Model, LabelMap, error)

// Bootstrap is a one-time initialization barrier. Until the loader finishes,
// Snapshot returns nil and requests must be denied; afterwards it returns the
// same immutable State to every caller. State and readiness publish together,
// atomically.
type Bootstrap struct {
	state atomic.Pointer[State]
	once  sync.Once
	log   *logrus.Logger
}

func NewBootstrap(log *logrus.Logger) *Bootstrap {
	return &Bootstrap{log: log}
}

// Start runs the loader on a background goroutine so process startup is not
// blocked. At most one load happens per process; later calls are no-ops.
func (b *Bootstrap) Start(load Loader) {
	b.once.Do(func() {
		go func() {
			model, labels, err := load()
			if err != nil {
				b.log.WithError(err).Error("classifier bootstrap failed")
				b.state.Store(&State{Err: err})
				return
			}
			b.log.WithField("labels", len(labels)).Info("classifier ready")
			b.state.Store(&State{Model: model, Labels: labels})
		}()
	})
}

// Snapshot returns the published state, or nil while loading.
func (b *Bootstrap) Snapshot() *State {
	return b.state.Load()
}

// Ready reports whether the barrier holds a serving-capable state.
func (s *State) Ready() bool {
	return s != nil && s.Err == nil
}

// DefaultLoader builds the production loader: verify all three artifact
// files exist, build the label mapping, then load the graph.
func DefaultLoader(cfg config.ModelConfig) Loader {
	return func() (*Model, LabelMap, error) {
		for _, path := range []string{cfg.GraphPath(), cfg.LabelLookupPath(), cfg.UIDLookupPath()} {
			if _, err := os.Stat(path); err != nil {
				if os.IsNotExist(err) {
					return nil, nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
				}
				return nil, nil, fmt.Errorf("stat %s: %w", path, err)
			}
		}

		labels, err := LoadLabelMap(cfg.LabelLookupPath(), cfg.UIDLookupPath())
		if err != nil {
			return nil, nil, err
		}

		model, err := LoadModel(cfg.GraphPath(), labels, cfg.ImageSize)
		if err != nil {
			return nil, nil, err
		}

		return model, labels, nil
	}
}
