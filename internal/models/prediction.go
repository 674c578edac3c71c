package models

// Prediction is one ranked classification result. Score is converted away
// from the inference runtime's native float32 before anything logs or
// serializes it.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
