package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

func validRecord() model.RepositoryRecord {
	updated := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)
	return model.RepositoryRecord{
		Name:        "notify",
		Org:         "alphagov",
		Stars:       3,
		UpdatedAt:   updated,
		UpdatedYear: model.YearOf(updated),
		Country:     model.CountryMember,
	}
}

func TestYearOf_UsesUTC(t *testing.T) {
	// 2025-01-01 01:00 in UTC+3 is still 2024 in UTC.
	tz := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, 2024, model.YearOf(time.Date(2025, 1, 1, 1, 0, 0, 0, tz)))
}

func TestRepositoryRecord_Validate(t *testing.T) {
	orgs := []string{"alphagov", "GSA"}
	vocab := model.DefaultVocabulary()

	tests := []struct {
		name    string
		mutate  func(r *model.RepositoryRecord)
		orgs    []string
		wantErr bool
	}{
		{name: "valid", mutate: func(*model.RepositoryRecord) {}, orgs: orgs},
		{name: "negative stars", mutate: func(r *model.RepositoryRecord) { r.Stars = -1 }, orgs: orgs, wantErr: true},
		{name: "year mismatch", mutate: func(r *model.RepositoryRecord) { r.UpdatedYear = 2025 }, orgs: orgs, wantErr: true},
		{name: "unknown org", mutate: func(r *model.RepositoryRecord) { r.Org = "acme" }, orgs: orgs, wantErr: true},
		{name: "org check skipped", mutate: func(r *model.RepositoryRecord) { r.Org = "acme" }, orgs: nil},
		{name: "vocabulary category", mutate: func(r *model.RepositoryRecord) { r.Category = model.CategoryHealth }, orgs: orgs},
		{name: "unclassified", mutate: func(r *model.RepositoryRecord) { r.Category = model.CategoryUnclassified }, orgs: orgs},
		{name: "foreign category", mutate: func(r *model.RepositoryRecord) { r.Category = "Sports" }, orgs: orgs, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)

			err := r.Validate(tt.orgs, vocab)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCountryFor(t *testing.T) {
	assert.Equal(t, model.CountryMember, model.CountryFor("alphagov", model.DefaultMemberOrgs))
	assert.Equal(t, model.CountryNonMember, model.CountryFor("GSA", model.DefaultMemberOrgs))
	assert.Equal(t, model.CountryNonMember, model.CountryFor("alphagov", nil))
}

func TestVocabulary(t *testing.T) {
	v := model.DefaultVocabulary()

	assert.Len(t, v, 6)
	assert.True(t, v.Contains(model.CategoryAIAutomation))
	assert.False(t, v.Contains(model.CategoryUnclassified))
	assert.Equal(t, "Health", v.Labels()[0])
}

func TestInsights_LatestUpdateDate(t *testing.T) {
	assert.Empty(t, model.Insights{}.LatestUpdateDate())

	ins := model.Insights{HasData: true, LatestUpdate: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03-05", ins.LatestUpdateDate())
}

func TestFilter_IsActive(t *testing.T) {
	assert.False(t, model.Filter{}.IsActive())
	assert.True(t, model.Filter{Years: []int{2024}}.IsActive())
}
