package application_test

import (
	"net/url"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/domain/model"
)

func names(recs []model.RepositoryRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func TestBuildView_NoFilterSortsByStars(t *testing.T) {
	got := application.BuildView(sampleRecords(), model.Filter{})

	// Equal star counts keep their input order.
	want := []string{"design", "notify", "forms", "docs", "tools"}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("view order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildView_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter model.Filter
		want   []string
	}{
		{name: "language", filter: model.Filter{Languages: []string{"Go"}}, want: []string{"design", "forms"}},
		{name: "language or", filter: model.Filter{Languages: []string{"Go", "Python"}}, want: []string{"design", "notify", "forms"}},
		{name: "org", filter: model.Filter{Orgs: []string{"alphagov"}}, want: []string{"notify", "docs"}},
		{name: "year excludes other years", filter: model.Filter{Years: []int{2023}}, want: []string{"design", "forms"}},
		{name: "and across dimensions", filter: model.Filter{Orgs: []string{"alphagov"}, Years: []int{2024}}, want: []string{"notify"}},
		{name: "absent language excluded", filter: model.Filter{Orgs: []string{"alphagov"}, Languages: []string{"Python", ""}}, want: []string{"notify"}},
		{name: "no match", filter: model.Filter{Languages: []string{"Rust"}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := application.BuildView(sampleRecords(), tt.filter)
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("view mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildView_Properties(t *testing.T) {
	input := sampleRecords()
	before := slices.Clone(input)

	filters := []model.Filter{
		{},
		{Languages: []string{"Go"}},
		{Years: []int{2024, 2022}},
		{Orgs: []string{"GSA", "alphagov"}, Languages: []string{"Go", "Python"}},
	}

	for _, f := range filters {
		got := application.BuildView(input, f)

		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Stars, got[i].Stars)
		}
		for _, r := range got {
			assert.True(t, slices.ContainsFunc(input, func(in model.RepositoryRecord) bool {
				return in.FullName() == r.FullName()
			}))
			if len(f.Languages) > 0 {
				assert.Contains(t, f.Languages, r.Language)
			}
			if len(f.Orgs) > 0 {
				assert.Contains(t, f.Orgs, r.Org)
			}
			if len(f.Years) > 0 {
				assert.Contains(t, f.Years, r.UpdatedYear)
			}
		}
	}

	assert.Equal(t, before, input)
}

func TestOptions(t *testing.T) {
	got := application.Options(sampleRecords())

	want := model.FilterOptions{
		Languages: []string{"Go", "Python", "TypeScript"},
		Orgs:      []string{"GSA", "alphagov", "canada-ca", "opengovsg"},
		Years:     []int{2024, 2023, 2022},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFilter(t *testing.T) {
	q := url.Values{
		"language": {"Go,Python", "Go"},
		"org":      {" alphagov "},
		"year":     {"2024", "2023,2024"},
	}

	f, err := application.ParseFilter(q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Python"}, f.Languages)
	assert.Equal(t, []string{"alphagov"}, f.Orgs)
	assert.Equal(t, []int{2024, 2023}, f.Years)

	round, err := application.ParseFilter(application.Query(f))
	require.NoError(t, err)
	assert.Equal(t, f, round)
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := application.ParseFilter(url.Values{})
	require.NoError(t, err)
	assert.False(t, f.IsActive())
}

func TestParseFilter_BadYear(t *testing.T) {
	_, err := application.ParseFilter(url.Values{"year": {"recent"}})
	require.Error(t, err)
}
