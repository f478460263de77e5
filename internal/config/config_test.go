package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// allConfigKeys lists every GOVSCAN_ env var that Load() reads.
var allConfigKeys = []string{
	"GOVSCAN_GITHUB_TOKEN",
	"GOVSCAN_GITHUB_API_URL",
	"GOVSCAN_SOURCE",
	"GOVSCAN_CSV_PATH",
	"GOVSCAN_FETCH_READMES",
	"GOVSCAN_README_CONCURRENCY",
	"GOVSCAN_CLASSIFY",
	"GOVSCAN_CLASSIFIER_URL",
	"GOVSCAN_CLASSIFIER_TOKEN",
	"GOVSCAN_LISTEN_ADDR",
	"GOVSCAN_DB_PATH",
	"GOVSCAN_SECRET_KEY",
	"GOVSCAN_SESSION_LIMIT",
	"GOVSCAN_HTTP_TIMEOUT",
	"GOVSCAN_CONFIG_FILE",
}

// isolateConfigEnv saves and unsets all GOVSCAN_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, SourceGitHub, cfg.Source)
	assert.False(t, cfg.FetchReadmes)
	assert.Equal(t, 1, cfg.ReadmeConcurrency)
	assert.False(t, cfg.Classify)
	assert.Equal(t, DefaultClassifierURL, cfg.ClassifierURL)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "govscan.db", cfg.DBPath)
	assert.Equal(t, 64, cfg.SessionLimit)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, model.DefaultOrgs, cfg.Organizations)
	assert.Equal(t, model.DefaultMemberOrgs, cfg.MemberOrgs)
	assert.Equal(t, model.DefaultVocabulary(), cfg.Categories)
	assert.False(t, cfg.HasSecretKey())
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GOVSCAN_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("GOVSCAN_GITHUB_API_URL", "https://ghe.example.gov/api/v3/")
	t.Setenv("GOVSCAN_FETCH_READMES", "true")
	t.Setenv("GOVSCAN_README_CONCURRENCY", "4")
	t.Setenv("GOVSCAN_CLASSIFY", "1")
	t.Setenv("GOVSCAN_CLASSIFIER_URL", "http://localhost:9000/classify")
	t.Setenv("GOVSCAN_CLASSIFIER_TOKEN", "hf_abc")
	t.Setenv("GOVSCAN_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("GOVSCAN_DB_PATH", "/tmp/test.db")
	t.Setenv("GOVSCAN_SESSION_LIMIT", "8")
	t.Setenv("GOVSCAN_HTTP_TIMEOUT", "5s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.Equal(t, "https://ghe.example.gov/api/v3/", cfg.GitHubAPIURL)
	assert.True(t, cfg.FetchReadmes)
	assert.Equal(t, 4, cfg.ReadmeConcurrency)
	assert.True(t, cfg.Classify)
	assert.Equal(t, "http://localhost:9000/classify", cfg.ClassifierURL)
	assert.Equal(t, "hf_abc", cfg.ClassifierToken)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 8, cfg.SessionLimit)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_CSVSource(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GOVSCAN_SOURCE", "csv")
	t.Setenv("GOVSCAN_CSV_PATH", "/data/repos.csv")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, "/data/repos.csv", cfg.CSVPath)
}

func TestLoad_CSVSourceWithoutPath(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GOVSCAN_SOURCE", "csv")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOVSCAN_CSV_PATH")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "GOVSCAN_SOURCE", value: "gitlab"},
		{key: "GOVSCAN_FETCH_READMES", value: "sometimes"},
		{key: "GOVSCAN_CLASSIFY", value: "maybe"},
		{key: "GOVSCAN_README_CONCURRENCY", value: "0"},
		{key: "GOVSCAN_README_CONCURRENCY", value: "many"},
		{key: "GOVSCAN_SESSION_LIMIT", value: "-1"},
		{key: "GOVSCAN_HTTP_TIMEOUT", value: "soon"},
		{key: "GOVSCAN_HTTP_TIMEOUT", value: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	isolateConfigEnv(t)
	// 64 hex chars = 32 bytes
	t.Setenv("GOVSCAN_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
	assert.True(t, cfg.HasSecretKey())
}

func TestLoad_SecretKey_TooShort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GOVSCAN_SECRET_KEY", "deadbeef")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOVSCAN_SECRET_KEY")
}

func TestLoad_SecretKey_NotHex(t *testing.T) {
	isolateConfigEnv(t)
	// 64 chars but not valid hex
	t.Setenv("GOVSCAN_SECRET_KEY", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOVSCAN_SECRET_KEY")
}

func TestLoad_ConfigFile(t *testing.T) {
	isolateConfigEnv(t)
	path := writeFile(t, "govscan.yaml", `
organizations:
  - alphagov
  - GSA
  - alphagov
member_organizations:
  - GSA
categories:
  - Transport
  - Housing
`)
	t.Setenv("GOVSCAN_CONFIG_FILE", path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"alphagov", "GSA"}, cfg.Organizations)
	assert.Equal(t, []string{"GSA"}, cfg.MemberOrgs)
	assert.Equal(t, model.Vocabulary{"Transport", "Housing"}, cfg.Categories)
}

func TestLoad_ConfigFile_PartialKeepsDefaults(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GOVSCAN_CONFIG_FILE", writeFile(t, "govscan.yaml", "organizations: [opengovsg]\n"))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"opengovsg"}, cfg.Organizations)
	assert.Equal(t, model.DefaultMemberOrgs, cfg.MemberOrgs)
	assert.Equal(t, model.DefaultVocabulary(), cfg.Categories)
}

func TestLoad_ConfigFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		message string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
			message: "GOVSCAN_CONFIG_FILE",
		},
		{
			name:    "malformed yaml",
			path:    func(t *testing.T) string { return writeFile(t, "bad.yaml", "organizations: [unterminated\n") },
			message: "GOVSCAN_CONFIG_FILE",
		},
		{
			name:    "reserved category",
			path:    func(t *testing.T) string { return writeFile(t, "c.yaml", "categories: [Health, Unclassified]\n") },
			message: "reserved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("GOVSCAN_CONFIG_FILE", tt.path(t))

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolateConfigEnv(t)
	path := writeFile(t, ".env", "GOVSCAN_LISTEN_ADDR=127.0.0.1:7070\n")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7070", cfg.ListenAddr)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GOVSCAN_DB_PATH", "/from/env.db")
	path := writeFile(t, ".env", "GOVSCAN_DB_PATH=/from/file.db\n")

	require.NoError(t, LoadDotEnv(path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
}
