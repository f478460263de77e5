package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/bootstrap"
	"github.com/ericfisherdev/govscan/internal/config"
	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// pipelineFlags are shared by every command that runs the pipeline.
type pipelineFlags struct {
	csvPath   string
	languages []string
	orgs      []string
	years     []int
	readmes   bool
	classify  bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.csvPath, "csv", "", "read records from a CSV file instead of the GitHub API")
	fs.StringSliceVar(&f.languages, "language", nil, "keep only these languages (repeatable)")
	fs.StringSliceVar(&f.orgs, "org", nil, "keep only these organizations (repeatable)")
	fs.IntSliceVar(&f.years, "year", nil, "keep only repositories last updated in these years (repeatable)")
	fs.BoolVar(&f.readmes, "readmes", false, "fetch README content (one extra API call per repository)")
	fs.BoolVar(&f.classify, "classify", false, "classify descriptions with the zero-shot endpoint")
}

func (f *pipelineFlags) filter() model.Filter {
	return model.Filter{Languages: f.languages, Orgs: f.orgs, Years: f.years}
}

// result is one pipeline run narrowed to the requested filter.
type result struct {
	dataset    *model.Dataset
	rows       []model.RepositoryRecord
	insights   model.Insights
	classified bool
}

// run loads configuration, applies flag overrides and runs the pipeline once.
func (f *pipelineFlags) run(cmd *cobra.Command) (*result, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if f.csvPath != "" {
		cfg.Source = config.SourceCSV
		cfg.CSVPath = f.csvPath
	}
	if cmd.Flags().Changed("readmes") {
		cfg.FetchReadmes = f.readmes
	}
	if cmd.Flags().Changed("classify") {
		cfg.Classify = f.classify
	}

	pipeline, err := bootstrap.NewPipeline(cfg, application.StaticOrgs(cfg.Organizations), bootstrap.Tokens{
		GitHub:     cfg.GitHubToken,
		Classifier: cfg.ClassifierToken,
	})
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	ds, err := pipeline.Loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range ds.Warnings {
		logWarning(w)
	}

	rows := application.BuildView(ds.Records, f.filter())
	logDone(fmt.Sprintf("loaded %d repositories, %d after filters", len(ds.Records), len(rows)), start)

	return &result{
		dataset:    ds,
		rows:       rows,
		insights:   application.ComputeInsights(rows),
		classified: pipeline.Classified,
	}, nil
}
