package model

import (
	"fmt"
	"slices"
	"time"
)

// RepositoryRecord is one repository's flattened attribute set: a single row of
// the dashboard table. Empty Language or Description means the value is absent.
type RepositoryRecord struct {
	Name        string
	Org         string
	Language    string
	Description string
	Stars       int
	UpdatedAt   time.Time
	UpdatedYear int
	URL         string
	Readme      string
	Country     CountryLabel
	Category    Category // Empty when classification is disabled.
}

// FullName returns "org/name".
func (r RepositoryRecord) FullName() string {
	return r.Org + "/" + r.Name
}

// YearOf returns the calendar year of t in UTC. Every derived UpdatedYear is
// computed through this function so it never disagrees with UpdatedAt.
func YearOf(t time.Time) int {
	return t.UTC().Year()
}

// Validate checks the record invariants against the organization list of the
// run and the category vocabulary. A nil orgs slice skips the membership check.
func (r RepositoryRecord) Validate(orgs []string, vocab Vocabulary) error {
	if r.Stars < 0 {
		return fmt.Errorf("record %s: negative star count %d", r.FullName(), r.Stars)
	}
	if r.UpdatedYear != YearOf(r.UpdatedAt) {
		return fmt.Errorf("record %s: year %d does not match updated_at %s",
			r.FullName(), r.UpdatedYear, r.UpdatedAt.Format(time.RFC3339))
	}
	if orgs != nil && !slices.Contains(orgs, r.Org) {
		return fmt.Errorf("record %s: organization %q is not configured", r.FullName(), r.Org)
	}
	if r.Category != "" && r.Category != CategoryUnclassified && !vocab.Contains(r.Category) {
		return fmt.Errorf("record %s: category %q is not in the vocabulary", r.FullName(), r.Category)
	}
	return nil
}

// RepoMetadata is the subset of a GitHub repository object the fetcher consumes.
type RepoMetadata struct {
	Name        string
	Owner       string
	Description string
	Language    string
	Stars       int
	UpdatedAt   time.Time
	HTMLURL     string
}

// Warning is a user-visible, non-fatal problem raised while loading a dataset.
type Warning struct {
	Org        string
	StatusCode int // Zero when the failure happened before any HTTP response.
	Message    string
}

// Dataset is the result of one fetch cycle, held for the duration of a session.
type Dataset struct {
	Source    string
	Records   []RepositoryRecord
	Warnings  []Warning
	FetchedAt time.Time
}
