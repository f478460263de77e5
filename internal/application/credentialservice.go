package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// ErrUnknownService is returned for a credential service other than github or classifier.
var ErrUnknownService = errors.New("unknown credential service")

// ClientFactory builds a GitHub client for token.
type ClientFactory func(token string) (driven.GitHubClient, error)

// CredentialStatus reports whether a service has a stored token, without its value.
type CredentialStatus struct {
	Service    string
	Configured bool
}

// CredentialService stores API tokens and hot-swaps the GitHub client when its
// token changes. Classifier tokens take effect on the next start.
type CredentialService struct {
	store     driven.CredentialStore
	provider  *GitHubClientProvider
	newClient ClientFactory
}

// NewCredentialService creates a CredentialService.
func NewCredentialService(store driven.CredentialStore, provider *GitHubClientProvider, newClient ClientFactory) *CredentialService {
	return &CredentialService{store: store, provider: provider, newClient: newClient}
}

var knownServices = []string{driven.ServiceGitHub, driven.ServiceClassifier}

// Update stores value for service. An empty value deletes the stored token.
func (s *CredentialService) Update(ctx context.Context, service, value string) error {
	if !slices.Contains(knownServices, service) {
		return fmt.Errorf("%w: %q", ErrUnknownService, service)
	}

	if value == "" {
		if err := s.store.Delete(ctx, service); err != nil {
			return err
		}
	} else if err := s.store.Set(ctx, service, value); err != nil {
		return err
	}

	if service == driven.ServiceGitHub {
		client, err := s.newClient(value)
		if err != nil {
			return fmt.Errorf("creating github client: %w", err)
		}
		s.provider.Replace(client, value)
		slog.Info("github client replaced", "authenticated", value != "")
	}

	return nil
}

// Status lists every known service and whether a token is stored for it.
func (s *CredentialService) Status(ctx context.Context) ([]CredentialStatus, error) {
	out := make([]CredentialStatus, 0, len(knownServices))
	for _, svc := range knownServices {
		v, err := s.store.Get(ctx, svc)
		if err != nil {
			return nil, err
		}
		out = append(out, CredentialStatus{Service: svc, Configured: v != ""})
	}
	return out, nil
}
