// Package bootstrap assembles the data pipeline from configuration. It is
// shared by the server and the command-line tool.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/govscan/internal/adapter/driven/classifier"
	"github.com/ericfisherdev/govscan/internal/adapter/driven/csvfile"
	ghAdapter "github.com/ericfisherdev/govscan/internal/adapter/driven/github"
	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/config"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// Tokens are the effective API tokens after stored credentials have been
// merged over the environment.
type Tokens struct {
	GitHub     string
	Classifier string
}

// Pipeline is an assembled data source.
type Pipeline struct {
	Loader application.Loader
	// Provider is nil for the CSV source.
	Provider   *application.GitHubClientProvider
	Classified bool
}

// GitHubClientFactory returns a factory building GitHub clients with the
// configured API URL and timeout.
func GitHubClientFactory(cfg *config.Config) application.ClientFactory {
	return func(token string) (driven.GitHubClient, error) {
		return ghAdapter.NewClient(token, cfg.GitHubAPIURL, cfg.HTTPTimeout)
	}
}

// NewPipeline builds the loader selected by cfg.Source. orgs supplies the
// organization list of a live scan.
func NewPipeline(cfg *config.Config, orgs application.OrgLister, tokens Tokens) (*Pipeline, error) {
	var categorizer *application.Categorizer
	if cfg.Classify {
		clf := classifier.NewClient(cfg.ClassifierURL, tokens.Classifier, cfg.HTTPTimeout)
		categorizer = application.NewCategorizer(clf, cfg.Categories)
		slog.Info("classification enabled", "endpoint", cfg.ClassifierURL, "labels", len(categorizer.Vocabulary()))
	}

	if cfg.Source == config.SourceCSV {
		src := csvfile.NewSource(cfg.CSVPath, cfg.MemberOrgs)
		return &Pipeline{
			Loader:     application.NewCSVLoader(src, categorizer),
			Classified: categorizer != nil,
		}, nil
	}

	client, err := GitHubClientFactory(cfg)(tokens.GitHub)
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}
	if tokens.GitHub == "" {
		slog.Warn("no github token configured, unauthenticated rate limits apply")
	}

	provider := application.NewGitHubClientProvider(client, tokens.GitHub)
	scan := application.NewScanService(provider, orgs, cfg.MemberOrgs, categorizer, application.ScanOptions{
		FetchReadmes:      cfg.FetchReadmes,
		ReadmeConcurrency: cfg.ReadmeConcurrency,
	})

	return &Pipeline{
		Loader:     scan,
		Provider:   provider,
		Classified: categorizer != nil,
	}, nil
}
