package driven

import "context"

// Prediction is one ranked (label, score) pair from a zero-shot classifier.
type Prediction struct {
	Label string
	Score float64
}

// Classifier defines the driven port for the external zero-shot text
// classification service. Predictions are ordered best first.
type Classifier interface {
	Classify(ctx context.Context, text string, candidateLabels []string) ([]Prediction, error)
}
