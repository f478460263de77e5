package application_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	mu      sync.Mutex
	repos   map[string][]model.RepoMetadata
	errs    map[string]error
	readmes map[string]string
	calls   []string
}

func (m *mockGitHubClient) ListOrgRepos(_ context.Context, org string) ([]model.RepoMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "list:"+org)
	if err, ok := m.errs[org]; ok {
		return nil, err
	}
	return m.repos[org], nil
}

func (m *mockGitHubClient) FetchReadme(_ context.Context, org, repo string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "readme:"+org+"/"+repo)
	content, ok := m.readmes[org+"/"+repo]
	if !ok {
		return "", &driven.APIError{StatusCode: 404, Err: errNotFound}
	}
	return content, nil
}

type mockClassifier struct {
	predict func(text string, labels []string) ([]driven.Prediction, error)
	texts   []string
}

func (m *mockClassifier) Classify(_ context.Context, text string, labels []string) ([]driven.Prediction, error) {
	m.texts = append(m.texts, text)
	return m.predict(text, labels)
}

type mockLoader struct {
	key   string
	loads atomic.Int32
	delay time.Duration
	err   error
	// gate, when set, blocks the first load until it is closed.
	gate    chan struct{}
	started chan struct{}
}

func (m *mockLoader) SourceKey(_ context.Context) (string, error) {
	return m.key, nil
}

func (m *mockLoader) Load(_ context.Context) (*model.Dataset, error) {
	n := m.loads.Add(1)
	if n == 1 && m.gate != nil {
		close(m.started)
		<-m.gate
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &model.Dataset{
		Source:  "mock",
		Records: sampleRecords(),
		Warnings: []model.Warning{
			{Org: "orgB", StatusCode: 404, Message: "Failed to fetch repos for orgB: 404"},
		},
		FetchedAt: time.Date(2025, 1, int(n), 0, 0, 0, 0, time.UTC),
	}, nil
}

type stubError string

func (e stubError) Error() string { return string(e) }

const errNotFound = stubError("not found")

func rec(name, org, lang string, stars int, updated time.Time) model.RepositoryRecord {
	return model.RepositoryRecord{
		Name:        name,
		Org:         org,
		Language:    lang,
		Stars:       stars,
		UpdatedAt:   updated,
		UpdatedYear: model.YearOf(updated),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func sampleRecords() []model.RepositoryRecord {
	return []model.RepositoryRecord{
		rec("notify", "alphagov", "Python", 120, day(2024, 3, 5)),
		rec("forms", "canada-ca", "Go", 8, day(2023, 6, 1)),
		rec("docs", "alphagov", "", 8, day(2022, 1, 9)),
		rec("design", "GSA", "Go", 300, day(2023, 11, 20)),
		rec("tools", "opengovsg", "TypeScript", 8, day(2024, 1, 2)),
	}
}
