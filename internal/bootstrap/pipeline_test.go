package bootstrap_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/bootstrap"
	"github.com/ericfisherdev/govscan/internal/config"
	"github.com/ericfisherdev/govscan/internal/domain/model"
)

func baseConfig() *config.Config {
	return &config.Config{
		Source:            config.SourceGitHub,
		ReadmeConcurrency: 1,
		ClassifierURL:     config.DefaultClassifierURL,
		HTTPTimeout:       5 * time.Second,
		MemberOrgs:        model.DefaultMemberOrgs,
		Categories:        model.DefaultVocabulary(),
	}
}

func TestNewPipeline_GitHub(t *testing.T) {
	cfg := baseConfig()
	orgs := application.StaticOrgs{"alphagov", "GSA"}

	p, err := bootstrap.NewPipeline(cfg, orgs, bootstrap.Tokens{GitHub: "ghp_x"})
	require.NoError(t, err)

	require.NotNil(t, p.Provider)
	assert.True(t, p.Provider.HasClient())
	assert.False(t, p.Classified)

	key, err := p.Loader.SourceKey(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "github:alphagov,GSA@"), key)
}

func TestNewPipeline_CSV(t *testing.T) {
	cfg := baseConfig()
	cfg.Source = config.SourceCSV
	cfg.CSVPath = "testdata/repos.csv"
	cfg.Classify = true

	p, err := bootstrap.NewPipeline(cfg, nil, bootstrap.Tokens{})
	require.NoError(t, err)

	assert.Nil(t, p.Provider)
	assert.True(t, p.Classified)

	key, err := p.Loader.SourceKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "csv:testdata/repos.csv", key)
}

func TestGitHubClientFactory(t *testing.T) {
	cfg := baseConfig()
	cfg.GitHubAPIURL = "https://ghe.example.gov/api/v3"

	client, err := bootstrap.GitHubClientFactory(cfg)("")
	require.NoError(t, err)
	assert.NotNil(t, client)
}
