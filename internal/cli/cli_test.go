package cli_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govscan/internal/cli"
	"github.com/ericfisherdev/govscan/internal/domain/model"
)

const fixture = `name,language,org,updated_at,stars,description,readme,url
notify,Python,alphagov,2024-03-05T10:00:00Z,120,Notification service,,https://github.com/alphagov/notify
design,Go,GSA,2023-11-20,300,,,https://github.com/GSA/design
forms,Go,canada-ca,2023-06-01,8,Forms,,
`

var configKeys = []string{
	"GOVSCAN_GITHUB_TOKEN", "GOVSCAN_GITHUB_API_URL", "GOVSCAN_SOURCE", "GOVSCAN_CSV_PATH",
	"GOVSCAN_FETCH_READMES", "GOVSCAN_README_CONCURRENCY", "GOVSCAN_CLASSIFY",
	"GOVSCAN_CLASSIFIER_URL", "GOVSCAN_CLASSIFIER_TOKEN", "GOVSCAN_LISTEN_ADDR",
	"GOVSCAN_DB_PATH", "GOVSCAN_SECRET_KEY", "GOVSCAN_SESSION_LIMIT", "GOVSCAN_HTTP_TIMEOUT",
	"GOVSCAN_CONFIG_FILE",
}

// setup clears GOVSCAN_ variables and writes the fixture file.
func setup(t *testing.T) string {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "repos.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd(&out, &errOut)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestScan_JSON(t *testing.T) {
	path := setup(t)

	out, err := run(t, "scan", "--csv", path, "--json")
	require.NoError(t, err)

	var got struct {
		Source string `json:"source"`
		Repos  []struct {
			Name     string  `json:"name"`
			Language *string `json:"language"`
			Country  string  `json:"country"`
			Year     int     `json:"year"`
		} `json:"repos"`
		Insights struct {
			Total              int    `json:"total"`
			MostCommonLanguage string `json:"most_common_language"`
			LatestUpdate       string `json:"latest_update"`
		} `json:"insights"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "csv", got.Source)
	require.Len(t, got.Repos, 3)
	assert.Equal(t, "design", got.Repos[0].Name)
	assert.Equal(t, "notify", got.Repos[1].Name)
	assert.Equal(t, "forms", got.Repos[2].Name)
	assert.Equal(t, "member", got.Repos[1].Country)
	assert.Equal(t, 2023, got.Repos[0].Year)

	assert.Equal(t, 3, got.Insights.Total)
	assert.Equal(t, "Go", got.Insights.MostCommonLanguage)
	assert.Equal(t, "2024-03-05", got.Insights.LatestUpdate)
}

func TestScan_TableWithFilter(t *testing.T) {
	path := setup(t)

	out, err := run(t, "scan", "--csv", path, "--language", "Go")
	require.NoError(t, err)

	assert.Contains(t, out, "design")
	assert.Contains(t, out, "forms")
	assert.NotContains(t, out, "notify")
	assert.Contains(t, out, "Most common language")
}

func TestScan_NoMatches(t *testing.T) {
	path := setup(t)

	out, err := run(t, "scan", "--csv", path, "--year", "1999")
	require.NoError(t, err)
	assert.Contains(t, out, "Total repositories: 0\n"+model.NoDataMessage)
}

func TestScan_MissingFile(t *testing.T) {
	setup(t)

	_, err := run(t, "scan", "--csv", filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestExport_WritesFile(t *testing.T) {
	path := setup(t)
	dest := filepath.Join(t.TempDir(), "out.csv")

	out, err := run(t, "export", "--csv", path, "--org", "GSA", "--org", "canada-ca", "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 rows")

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"language", "org", "year", "stars", "country", "description", "readme"}, rows[0])
	assert.Equal(t, []string{"Go", "GSA", "2023", "300", "non-member", "", ""}, rows[1])
	assert.Equal(t, []string{"Go", "canada-ca", "2023", "8", "non-member", "Forms", ""}, rows[2])
}

func TestExport_Stdout(t *testing.T) {
	path := setup(t)

	out, err := run(t, "export", "--csv", path, "--year", "2024", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "language,org,year,stars,country,description,readme\nPython,alphagov,2024,120,member,Notification service,\n", out)
}
