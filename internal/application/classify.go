package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// Categorizer assigns each description the top-ranked label of a fixed vocabulary.
type Categorizer struct {
	classifier driven.Classifier
	vocab      model.Vocabulary
}

// NewCategorizer creates a Categorizer. An empty vocab falls back to the
// default six categories.
func NewCategorizer(classifier driven.Classifier, vocab model.Vocabulary) *Categorizer {
	if len(vocab) == 0 {
		vocab = model.DefaultVocabulary()
	}
	return &Categorizer{classifier: classifier, vocab: vocab}
}

// Vocabulary returns the candidate labels.
func (c *Categorizer) Vocabulary() model.Vocabulary {
	return c.vocab
}

// Categorize classifies text. An empty text is still sent to the classifier.
// Any failure, an empty result, or a label outside the vocabulary yields
// CategoryUnclassified.
func (c *Categorizer) Categorize(ctx context.Context, text string) model.Category {
	preds, err := c.classifier.Classify(ctx, text, c.vocab.Labels())
	if err != nil {
		slog.Warn("classification failed", "status", driven.StatusCode(err), "error", err)
		return model.CategoryUnclassified
	}
	if len(preds) == 0 {
		return model.CategoryUnclassified
	}

	top := preds[0]
	for _, p := range preds[1:] {
		if p.Score > top.Score {
			top = p
		}
	}

	label := model.Category(top.Label)
	if !c.vocab.Contains(label) {
		slog.Warn("classifier returned unknown label", "label", top.Label)
		return model.CategoryUnclassified
	}
	return label
}

// CategorizeAll returns a copy of records with Category set, one synchronous
// call per record. Records that already carry a vocabulary label keep it.
func (c *Categorizer) CategorizeAll(ctx context.Context, records []model.RepositoryRecord) []model.RepositoryRecord {
	out := make([]model.RepositoryRecord, len(records))
	copy(out, records)

	for i := range out {
		if out[i].Category == model.CategoryUnclassified || c.vocab.Contains(out[i].Category) {
			continue
		}
		if ctx.Err() != nil {
			out[i].Category = model.CategoryUnclassified
			continue
		}
		out[i].Category = c.Categorize(ctx, out[i].Description)
	}

	return out
}
