package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ghAdapter "github.com/ericfisherdev/govscan/internal/adapter/driven/github"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL, "test-token")
	require.NoError(t, err)

	return client
}

// repoJSON is a helper struct for building GitHub API repository responses.
type repoJSON struct {
	Name        string    `json:"name"`
	Owner       ownerJSON `json:"owner"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	Stars       int       `json:"stargazers_count"`
	UpdatedAt   string    `json:"updated_at"`
	HTMLURL     string    `json:"html_url"`
}

type ownerJSON struct {
	Login string `json:"login"`
}

func strPtr(s string) *string { return &s }

func TestListOrgRepos(t *testing.T) {
	repos := []repoJSON{
		{
			Name:        "notify",
			Owner:       ownerJSON{Login: "alphagov"},
			Description: strPtr("Notification service"),
			Language:    strPtr("Python"),
			Stars:       120,
			UpdatedAt:   "2024-03-05T10:00:00Z",
			HTMLURL:     "https://github.com/alphagov/notify",
		},
		{
			Name:      "empty",
			Owner:     ownerJSON{Login: "alphagov"},
			UpdatedAt: "2021-12-31T23:59:59Z",
			HTMLURL:   "https://github.com/alphagov/empty",
		},
	}

	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/alphagov/repos", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("per_page")
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(repos)
	})

	client := newTestClient(t, mux)

	got, err := client.ListOrgRepos(context.Background(), "alphagov")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "100", gotQuery)

	assert.Equal(t, "notify", got[0].Name)
	assert.Equal(t, "alphagov", got[0].Owner)
	assert.Equal(t, "Notification service", got[0].Description)
	assert.Equal(t, "Python", got[0].Language)
	assert.Equal(t, 120, got[0].Stars)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), got[0].UpdatedAt)
	assert.Equal(t, "https://github.com/alphagov/notify", got[0].HTMLURL)

	// Null description and language map to absent values.
	assert.Empty(t, got[1].Description)
	assert.Empty(t, got[1].Language)
	assert.Equal(t, 0, got[1].Stars)
}

func TestListOrgRepos_EmptyOrg(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/quiet/repos", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	})

	client := newTestClient(t, mux)

	got, err := client.ListOrgRepos(context.Background(), "quiet")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListOrgRepos_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /orgs/missing/repos", func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			})

			client := newTestClient(t, mux)

			_, err := client.ListOrgRepos(context.Background(), "missing")
			require.Error(t, err)
			assert.Equal(t, tt.status, driven.StatusCode(err))
		})
	}
}

func TestListOrgRepos_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := ghAdapter.NewClientWithHTTPClient(http.DefaultClient, url, "")
	require.NoError(t, err)

	_, err = client.ListOrgRepos(context.Background(), "alphagov")
	require.Error(t, err)
	assert.Equal(t, 0, driven.StatusCode(err))
}

func TestFetchReadme(t *testing.T) {
	body := "# Notify\n\nSends messages."
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alphagov/notify/readme", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"encoding": "base64",
			"name":     "README.md",
			"content":  base64.StdEncoding.EncodeToString([]byte(body)),
		})
	})

	client := newTestClient(t, mux)

	got, err := client.FetchReadme(context.Background(), "alphagov", "notify")
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestFetchReadme_Missing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alphagov/bare/readme", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	client := newTestClient(t, mux)

	_, err := client.FetchReadme(context.Background(), "alphagov", "bare")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, driven.StatusCode(err))
}
