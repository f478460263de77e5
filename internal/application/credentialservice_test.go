package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

type memCredentialStore struct {
	values map[string]string
	err    error
}

func (m *memCredentialStore) Set(_ context.Context, service, plaintext string) error {
	if m.err != nil {
		return m.err
	}
	m.values[service] = plaintext
	return nil
}

func (m *memCredentialStore) Get(_ context.Context, service string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[service], nil
}

func (m *memCredentialStore) List(context.Context) ([]model.Credential, error) {
	return nil, m.err
}

func (m *memCredentialStore) Delete(_ context.Context, service string) error {
	delete(m.values, service)
	return nil
}

func newCredentialService(store driven.CredentialStore) (*application.CredentialService, *application.GitHubClientProvider, *[]string) {
	provider := application.NewGitHubClientProvider(&mockGitHubClient{}, "env-token")
	var built []string
	factory := func(token string) (driven.GitHubClient, error) {
		built = append(built, token)
		return &mockGitHubClient{}, nil
	}
	return application.NewCredentialService(store, provider, factory), provider, &built
}

func TestCredentialService_UpdateGitHubSwapsClient(t *testing.T) {
	store := &memCredentialStore{values: map[string]string{}}
	svc, provider, built := newCredentialService(store)
	before := provider.Get()

	require.NoError(t, svc.Update(context.Background(), driven.ServiceGitHub, "ghp_new"))

	assert.Equal(t, "ghp_new", store.values[driven.ServiceGitHub])
	assert.Equal(t, []string{"ghp_new"}, *built)
	assert.NotSame(t, before, provider.Get())
}

func TestCredentialService_UpdateClassifierDoesNotSwap(t *testing.T) {
	store := &memCredentialStore{values: map[string]string{}}
	svc, _, built := newCredentialService(store)

	require.NoError(t, svc.Update(context.Background(), driven.ServiceClassifier, "hf_x"))
	assert.Equal(t, "hf_x", store.values[driven.ServiceClassifier])
	assert.Empty(t, *built)
}

func TestCredentialService_EmptyValueDeletes(t *testing.T) {
	store := &memCredentialStore{values: map[string]string{driven.ServiceGitHub: "old"}}
	svc, _, _ := newCredentialService(store)

	require.NoError(t, svc.Update(context.Background(), driven.ServiceGitHub, ""))
	assert.NotContains(t, store.values, driven.ServiceGitHub)
}

func TestCredentialService_UnknownService(t *testing.T) {
	svc, _, _ := newCredentialService(&memCredentialStore{values: map[string]string{}})

	err := svc.Update(context.Background(), "gitlab", "x")
	require.ErrorIs(t, err, application.ErrUnknownService)
}

func TestCredentialService_KeyNotSet(t *testing.T) {
	svc, _, built := newCredentialService(&memCredentialStore{err: driven.ErrEncryptionKeyNotSet})

	err := svc.Update(context.Background(), driven.ServiceGitHub, "x")
	require.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
	assert.Empty(t, *built)
}

func TestCredentialService_Status(t *testing.T) {
	store := &memCredentialStore{values: map[string]string{driven.ServiceClassifier: "hf"}}
	svc, _, _ := newCredentialService(store)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []application.CredentialStatus{
		{Service: driven.ServiceGitHub, Configured: false},
		{Service: driven.ServiceClassifier, Configured: true},
	}, status)
}
