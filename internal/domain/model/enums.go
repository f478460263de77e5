package model

import "slices"

// CountryLabel is a static two-valued tag derived from organization-list
// membership, not from geography metadata.
type CountryLabel string

const (
	CountryMember    CountryLabel = "member"
	CountryNonMember CountryLabel = "non-member"
)

// CountryFor labels org as a member when it appears in members.
func CountryFor(org string, members []string) CountryLabel {
	if slices.Contains(members, org) {
		return CountryMember
	}
	return CountryNonMember
}

// DefaultMemberOrgs is the member allow-list used when none is configured.
var DefaultMemberOrgs = []string{"alphagov", "i-dot-ai"}

// DefaultOrgs is the organization list seeded when none is configured.
var DefaultOrgs = []string{
	"alphagov",
	"i-dot-ai",
	"canada-ca",
	"govtechsg",
	"GSA",
	"ec-europa",
	"opengovsg",
}

// Category is a topic label assigned by zero-shot classification.
type Category string

const (
	CategoryHealth         Category = "Health"
	CategoryJustice        Category = "Justice"
	CategoryEducation      Category = "Education"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryAIAutomation   Category = "AI/Automation"
	CategoryCybersecurity  Category = "Cybersecurity"

	// CategoryUnclassified replaces the label when classification fails.
	CategoryUnclassified Category = "Unclassified"
)

// Vocabulary is the closed, ordered set of candidate category labels.
type Vocabulary []Category

// DefaultVocabulary returns the six built-in categories.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		CategoryHealth,
		CategoryJustice,
		CategoryEducation,
		CategoryInfrastructure,
		CategoryAIAutomation,
		CategoryCybersecurity,
	}
}

// Contains reports whether c is one of the vocabulary labels.
func (v Vocabulary) Contains(c Category) bool {
	return slices.Contains(v, c)
}

// Labels returns the vocabulary as plain strings, in order.
func (v Vocabulary) Labels() []string {
	out := make([]string, len(v))
	for i, c := range v {
		out[i] = string(c)
	}
	return out
}
