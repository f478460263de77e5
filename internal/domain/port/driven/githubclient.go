package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// APIError reports a non-success HTTP response from an external API.
type APIError struct {
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %v", e.StatusCode, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from an HTTP response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GitHubClient defines the driven port for reading repository metadata.
type GitHubClient interface {
	// ListOrgRepos returns the first page (up to 100 entries) of an organization's
	// repositories. Repositories beyond the first page are omitted.
	ListOrgRepos(ctx context.Context, org string) ([]model.RepoMetadata, error)

	// FetchReadme returns the decoded README content of org/repo.
	FetchReadme(ctx context.Context, org, repo string) (string, error)
}
