package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// Credential service names.
const (
	ServiceGitHub     = "github"
	ServiceClassifier = "classifier"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
// GOVSCAN_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set GOVSCAN_SECRET_KEY")

// CredentialStore is the secrets store for API tokens. The adapter encrypts
// values at rest; this interface works with plaintext.
type CredentialStore interface {
	// Set stores or replaces the token for service.
	Set(ctx context.Context, service, plaintext string) error

	// Get returns ("", nil) if no credential exists for service.
	Get(ctx context.Context, service string) (string, error)

	// List returns all stored credentials with decrypted values.
	List(ctx context.Context) ([]model.Credential, error)

	Delete(ctx context.Context, service string) error
}
