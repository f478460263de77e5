package application

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// EnrichReadmes returns a copy of records with Readme filled from the README
// endpoint. It issues one request per record, so a scan costs O(orgs x repos)
// calls. A failed fetch leaves Readme empty and is only logged at debug level.
// concurrency below 1 runs the requests one at a time.
func EnrichReadmes(
	ctx context.Context,
	client driven.GitHubClient,
	records []model.RepositoryRecord,
	concurrency int,
) []model.RepositoryRecord {
	out := make([]model.RepositoryRecord, len(records))
	copy(out, records)

	if concurrency < 1 {
		concurrency = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range out {
		g.Go(func() error {
			readme, err := client.FetchReadme(gCtx, out[i].Org, out[i].Name)
			if err != nil {
				slog.Debug("readme unavailable",
					"repo", out[i].FullName(),
					"status", driven.StatusCode(err),
					"error", err,
				)
				return nil
			}
			out[i].Readme = readme
			return nil
		})
	}

	// Workers never return errors; failures degrade to an empty README.
	_ = g.Wait()

	return out
}
