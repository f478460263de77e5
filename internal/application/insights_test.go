package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/domain/model"
)

func TestComputeInsights(t *testing.T) {
	ins := application.ComputeInsights(sampleRecords())

	assert.True(t, ins.HasData)
	assert.Equal(t, 5, ins.Total)
	assert.Equal(t, "Go", ins.MostCommonLanguage)
	assert.Equal(t, "2024-03-05", ins.LatestUpdateDate())
}

func TestComputeInsights_TieGoesToFirstEncountered(t *testing.T) {
	recs := []model.RepositoryRecord{
		rec("a", "o", "Go", 1, day(2020, 1, 1)),
		rec("b", "o", "Python", 1, day(2020, 1, 1)),
		rec("c", "o", "Python", 1, day(2020, 1, 1)),
		rec("d", "o", "Go", 1, day(2021, 1, 1)),
	}

	ins := application.ComputeInsights(recs)
	assert.Equal(t, "Go", ins.MostCommonLanguage)
	assert.Equal(t, "2021-01-01", ins.LatestUpdateDate())
}

func TestComputeInsights_AbsentLanguagesIgnored(t *testing.T) {
	recs := []model.RepositoryRecord{
		rec("a", "o", "", 1, day(2020, 1, 1)),
		rec("b", "o", "", 1, day(2020, 1, 1)),
		rec("c", "o", "Rust", 1, day(2020, 1, 1)),
	}

	assert.Equal(t, "Rust", application.ComputeInsights(recs).MostCommonLanguage)
}

func TestComputeInsights_Empty(t *testing.T) {
	ins := application.ComputeInsights(nil)

	assert.Equal(t, 0, ins.Total)
	assert.False(t, ins.HasData)
	assert.Empty(t, ins.MostCommonLanguage)
	assert.Empty(t, ins.LatestUpdateDate())
}

func TestComputeInsights_FilteredView(t *testing.T) {
	view := application.BuildView(sampleRecords(), model.Filter{Orgs: []string{"alphagov"}})
	ins := application.ComputeInsights(view)

	assert.Equal(t, 2, ins.Total)
	assert.Equal(t, "Python", ins.MostCommonLanguage)
}
