package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// Sentinel errors returned by OrgStore implementations.
var (
	// ErrOrgNotFound indicates the requested organization is not tracked.
	ErrOrgNotFound = errors.New("organization not found")

	// ErrOrgAlreadyExists indicates the organization is already tracked.
	ErrOrgAlreadyExists = errors.New("organization already exists")
)

// OrgStore defines the driven port for the configured organization list.
// ListAll returns organizations in their configured order.
type OrgStore interface {
	Add(ctx context.Context, login string) error
	Remove(ctx context.Context, login string) error
	ListAll(ctx context.Context) ([]model.Organization, error)
	// SeedIfEmpty inserts logins in order when the store holds no organizations.
	SeedIfEmpty(ctx context.Context, logins []string) error
}
