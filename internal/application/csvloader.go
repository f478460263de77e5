package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// CSVLoader serves a static record file as a Dataset. The file is read once per
// session and never written back.
type CSVLoader struct {
	source      driven.RecordSource
	categorizer *Categorizer
	now         func() time.Time
}

var _ Loader = (*CSVLoader)(nil)

// NewCSVLoader creates a CSVLoader. categorizer may be nil; when set, rows
// without a category are classified after loading.
func NewCSVLoader(source driven.RecordSource, categorizer *Categorizer) *CSVLoader {
	return &CSVLoader{source: source, categorizer: categorizer, now: time.Now}
}

// SourceKey identifies the file.
func (l *CSVLoader) SourceKey(_ context.Context) (string, error) {
	return "csv:" + l.source.Location(), nil
}

// Load reads every record from the file.
func (l *CSVLoader) Load(ctx context.Context) (*model.Dataset, error) {
	records, err := l.source.ReadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	if l.categorizer != nil {
		records = l.categorizer.CategorizeAll(ctx, records)
	}

	slog.Info("csv loaded", "path", l.source.Location(), "records", len(records))

	return &model.Dataset{
		Source:    "csv",
		Records:   records,
		FetchedAt: l.now().UTC(),
	}, nil
}
