package driven

import (
	"context"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// RecordSource reads already-flattened repository records from a static store.
type RecordSource interface {
	ReadRecords(ctx context.Context) ([]model.RepositoryRecord, error)

	// Location identifies the backing store, e.g. the file path.
	Location() string
}
