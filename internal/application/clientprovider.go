package application

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// GitHubClientProvider enables runtime hot-swap of the GitHub client.
// It holds a mutex-protected reference to the current driven.GitHubClient
// together with a fingerprint of the token it was built from, so a stored
// token update takes effect without restarting the application.
type GitHubClientProvider struct {
	mu          sync.RWMutex
	client      driven.GitHubClient
	fingerprint string
}

// NewGitHubClientProvider creates a new provider with the given initial client
// and the token it authenticates with. client may be nil.
func NewGitHubClientProvider(client driven.GitHubClient, token string) *GitHubClientProvider {
	return &GitHubClientProvider{
		client:      client,
		fingerprint: tokenFingerprint(token),
	}
}

// Get returns the current GitHub client. Callers should check for nil
// if the provider was created without an initial client.
func (p *GitHubClientProvider) Get() driven.GitHubClient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Fingerprint returns a hash of the current token. It never exposes the token
// itself and changes whenever Replace installs a different token.
func (p *GitHubClientProvider) Fingerprint() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fingerprint
}

// Replace swaps the current client and token. The next caller of Get()
// receives the new client.
func (p *GitHubClientProvider) Replace(client driven.GitHubClient, token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
	p.fingerprint = tokenFingerprint(token)
}

// HasClient returns true if a non-nil client is currently held.
func (p *GitHubClientProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}

func tokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
