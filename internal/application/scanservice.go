// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

var (
	// ErrSourceUnavailable is returned when every organization request failed
	// before any HTTP response arrived.
	ErrSourceUnavailable = errors.New("github api unreachable for every organization")

	// ErrNoGitHubClient is returned when a live scan runs without a client.
	ErrNoGitHubClient = errors.New("no github client configured")

	// ErrInvalidOrg is returned for organization identifiers GitHub would reject.
	ErrInvalidOrg = errors.New("invalid organization identifier")
)

var orgLoginPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)

// ValidateOrg checks that login is a plausible organization identifier.
func ValidateOrg(login string) error {
	if !orgLoginPattern.MatchString(login) || strings.Trim(login, ".") == "" {
		return fmt.Errorf("%w: %q", ErrInvalidOrg, login)
	}
	return nil
}

// Loader produces a fresh Dataset. SourceKey identifies the inputs of the load
// so the session cache can tell two configurations apart.
type Loader interface {
	Load(ctx context.Context) (*model.Dataset, error)
	SourceKey(ctx context.Context) (string, error)
}

// OrgLister supplies the ordered organization list for a scan. driven.OrgStore
// satisfies it.
type OrgLister interface {
	ListAll(ctx context.Context) ([]model.Organization, error)
}

// StaticOrgs is an OrgLister over a fixed list, used when no store is configured.
type StaticOrgs []string

// ListAll returns the logins in order.
func (s StaticOrgs) ListAll(_ context.Context) ([]model.Organization, error) {
	out := make([]model.Organization, len(s))
	for i, login := range s {
		out[i] = model.Organization{Login: login, Position: i}
	}
	return out, nil
}

// ScanOptions selects the optional enrichment steps of a live scan.
type ScanOptions struct {
	FetchReadmes      bool
	ReadmeConcurrency int
}

// ScanService runs the live pipeline: fetch each organization, flatten, then
// enrich and classify.
type ScanService struct {
	provider    *GitHubClientProvider
	orgs        OrgLister
	members     []string
	categorizer *Categorizer
	opts        ScanOptions
	now         func() time.Time
}

var _ Loader = (*ScanService)(nil)

// NewScanService creates a ScanService. categorizer may be nil to disable
// classification.
func NewScanService(
	provider *GitHubClientProvider,
	orgs OrgLister,
	members []string,
	categorizer *Categorizer,
	opts ScanOptions,
) *ScanService {
	return &ScanService{
		provider:    provider,
		orgs:        orgs,
		members:     members,
		categorizer: categorizer,
		opts:        opts,
		now:         time.Now,
	}
}

// SourceKey covers the organization list and the token fingerprint.
func (s *ScanService) SourceKey(ctx context.Context) (string, error) {
	logins, err := s.logins(ctx)
	if err != nil {
		return "", err
	}
	return "github:" + strings.Join(logins, ",") + "@" + s.provider.Fingerprint(), nil
}

// Load runs one full fetch cycle.
func (s *ScanService) Load(ctx context.Context) (*model.Dataset, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, ErrNoGitHubClient
	}

	logins, err := s.logins(ctx)
	if err != nil {
		return nil, err
	}

	records, warnings, err := s.Fetch(ctx, client, logins)
	if err != nil {
		return nil, err
	}

	if s.opts.FetchReadmes {
		records = EnrichReadmes(ctx, client, records, s.opts.ReadmeConcurrency)
	}

	if s.categorizer != nil {
		records = s.categorizer.CategorizeAll(ctx, records)
	}

	slog.Info("scan complete",
		"orgs", len(logins),
		"records", len(records),
		"warnings", len(warnings),
	)

	return &model.Dataset{
		Source:    "github",
		Records:   records,
		Warnings:  warnings,
		FetchedAt: s.now().UTC(),
	}, nil
}

// Fetch lists each organization in order and flattens the results. A failed
// organization contributes a warning and zero records. ErrSourceUnavailable is
// returned only when every attempted request failed without an HTTP response.
func (s *ScanService) Fetch(
	ctx context.Context,
	client driven.GitHubClient,
	logins []string,
) ([]model.RepositoryRecord, []model.Warning, error) {
	var (
		records           []model.RepositoryRecord
		warnings          []model.Warning
		attempted         int
		transportFailures int
	)

	for _, org := range logins {
		if err := ValidateOrg(org); err != nil {
			slog.Warn("skipping organization", "org", org, "error", err)
			warnings = append(warnings, model.Warning{
				Org:     org,
				Message: fmt.Sprintf("Invalid organization identifier %q", org),
			})
			continue
		}

		attempted++
		metas, err := client.ListOrgRepos(ctx, org)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}

			status := driven.StatusCode(err)
			if status == 0 {
				transportFailures++
			}
			slog.Warn("failed to fetch organization", "org", org, "status", status, "error", err)
			warnings = append(warnings, orgWarning(org, status, err))
			continue
		}

		records = append(records, Flatten(org, metas, s.members)...)
	}

	if attempted > 0 && transportFailures == attempted {
		return nil, warnings, ErrSourceUnavailable
	}

	return records, warnings, nil
}

func orgWarning(org string, status int, err error) model.Warning {
	detail := fmt.Sprint(status)
	if status == 0 {
		detail = err.Error()
	}
	return model.Warning{
		Org:        org,
		StatusCode: status,
		Message:    fmt.Sprintf("Failed to fetch repos for %s: %s", org, detail),
	}
}

func (s *ScanService) logins(ctx context.Context) ([]string, error) {
	orgs, err := s.orgs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	logins := make([]string, len(orgs))
	for i, o := range orgs {
		logins[i] = o.Login
	}
	return logins, nil
}

// Flatten converts one organization's repository metadata into records. The
// record's Org is the configured organization, not the payload owner.
func Flatten(org string, metas []model.RepoMetadata, members []string) []model.RepositoryRecord {
	country := model.CountryFor(org, members)

	out := make([]model.RepositoryRecord, 0, len(metas))
	for _, m := range metas {
		updated := m.UpdatedAt.UTC()
		stars := m.Stars
		if stars < 0 {
			stars = 0
		}
		out = append(out, model.RepositoryRecord{
			Name:        m.Name,
			Org:         org,
			Language:    m.Language,
			Description: m.Description,
			Stars:       stars,
			UpdatedAt:   updated,
			UpdatedYear: model.YearOf(updated),
			URL:         m.HTMLURL,
			Country:     country,
		})
	}
	return out
}
