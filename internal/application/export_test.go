package application_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/domain/model"
)

func TestExportColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"language", "org", "year", "stars", "country", "description", "readme"},
		application.ExportColumns(false))
	assert.Equal(t, "category", application.ExportColumns(true)[7])
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	view := application.BuildView(sampleRecords(), model.Filter{Years: []int{2023, 2024}})
	view[0].Description = "Design system, with \"quotes\"\nand newlines"
	view[0].Country = model.CountryNonMember

	var buf bytes.Buffer
	cols := application.ExportColumns(false)
	require.NoError(t, application.WriteCSV(&buf, view, cols))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(view)+1)

	assert.Equal(t, cols, rows[0])
	for _, row := range rows[1:] {
		assert.Len(t, row, len(cols))
	}

	assert.Equal(t, []string{"Go", "GSA", "2023", "300", "non-member", view[0].Description, ""}, rows[1])
}

func TestWriteCSV_ColumnOrderIndependentOfView(t *testing.T) {
	var a, b bytes.Buffer
	cols := application.ExportColumns(true)

	require.NoError(t, application.WriteCSV(&a, sampleRecords(), cols))
	require.NoError(t, application.WriteCSV(&b, application.BuildView(sampleRecords(), model.Filter{Orgs: []string{"GSA"}}), cols))

	headerA, err := csv.NewReader(&a).Read()
	require.NoError(t, err)
	headerB, err := csv.NewReader(&b).Read()
	require.NoError(t, err)
	assert.Equal(t, headerA, headerB)
}

func TestWriteCSV_EmptyView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, application.WriteCSV(&buf, nil, application.ExportColumns(false)))
	assert.Equal(t, "language,org,year,stars,country,description,readme\n", buf.String())
}

func TestWriteCSV_UnknownColumn(t *testing.T) {
	var buf bytes.Buffer
	err := application.WriteCSV(&buf, sampleRecords(), []string{"language", "forks"})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}
