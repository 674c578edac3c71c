package classifier

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"

	"image-classify-bot/internal/models"
)

// ErrArtifactMissing marks a bootstrap failure caused by a missing model
// artifact file, as opposed to a parse or load failure.
var ErrArtifactMissing = errors.New("model artifact missing")

// Model wraps a loaded ONNX classification session together with its label
// mapping. It is immutable after load; tensors are created per call so
// concurrent classifications never share mutable state.
type Model struct {
	session    *ort.DynamicAdvancedSession
	labels     LabelMap
	inputSide  int
	numClasses int
}

// LoadModel loads the serialized graph into the inference runtime. The
// output distribution is assumed to carry one value per node ID in labels.
func LoadModel(graphPath string, labels LabelMap, inputSide int) (*Model, error) {
	if _, err := os.Stat(graphPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: graph file %s", ErrArtifactMissing, graphPath)
		}
		return nil, fmt.Errorf("stat graph file: %w", err)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(graphPath,
		[]string{"input"}, []string{"output"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	numClasses := 0
	for nodeID := range labels {
		if nodeID+1 > numClasses {
			numClasses = nodeID + 1
		}
	}

	return &Model{
		session:    session,
		labels:     labels,
		inputSide:  inputSide,
		numClasses: numClasses,
	}, nil
}

// Classify runs a forward pass on the image at path and returns up to max
// predictions with score strictly above threshold, in descending-score order.
// An empty result is not an error.
func (m *Model) Classify(imagePath string, max int, threshold float64) ([]models.Prediction, error) {
	input, err := m.preprocess(imagePath)
	if err != nil {
		return nil, err
	}

	side := int64(m.inputSide)
	inputTensor, err := ort.NewTensor(ort.NewShape(1, 3, side, side), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(m.numClasses)))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	err = m.session.Run(
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor})
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	return rank(outputTensor.GetData(), m.labels, max, threshold), nil
}

// Close releases the inference session.
func (m *Model) Close() {
	if m.session != nil {
		m.session.Destroy()
	}
	ort.DestroyEnvironment()
}

func (m *Model) preprocess(imagePath string) ([]float32, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return imageTensor(img, m.inputSide), nil
}

// imageTensor resizes the image to side x side and lays it out as CHW
// float32 values in [0,1].
func imageTensor(img image.Image, side int) []float32 {
	resized := resize.Resize(uint(side), uint(side), img, resize.Lanczos3)

	data := make([]float32, 3*side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			pixel := y*side + x
			data[pixel] = float32(r) / 65535.0
			data[side*side+pixel] = float32(g) / 65535.0
			data[2*side*side+pixel] = float32(b) / 65535.0
		}
	}

	return data
}

// rank selects the highest-scoring labeled entries. The sort is stable, so
// equal scores keep node-ID order; scores are converted to float64 before
// anything downstream logs or serializes them. Entries at or below the
// threshold never appear, and at most max entries are returned.
func rank(probs []float32, labels LabelMap, max int, threshold float64) []models.Prediction {
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})

	results := make([]models.Prediction, 0, max)
	for _, nodeID := range order {
		if len(results) == max {
			break
		}
		score := float64(probs[nodeID])
		if score <= threshold {
			break
		}
		label, ok := labels[nodeID]
		if !ok {
			continue
		}
		results = append(results, models.Prediction{Label: label, Score: score})
	}

	return results
}
