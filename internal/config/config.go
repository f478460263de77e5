// Package config loads application configuration from environment variables
// and an optional YAML file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// Data sources.
const (
	SourceGitHub = "github"
	SourceCSV    = "csv"
)

// DefaultClassifierURL is a public zero-shot classification endpoint.
const DefaultClassifierURL = "https://api-inference.huggingface.co/models/facebook/bart-large-mnli"

// Config holds the application configuration.
type Config struct {
	GitHubToken  string
	GitHubAPIURL string

	Source  string
	CSVPath string

	FetchReadmes      bool
	ReadmeConcurrency int

	Classify        bool
	ClassifierURL   string
	ClassifierToken string

	ListenAddr   string
	DBPath       string
	SecretKey    []byte // nil when GOVSCAN_SECRET_KEY is unset.
	SessionLimit int
	HTTPTimeout  time.Duration

	ConfigFile    string
	Organizations []string
	MemberOrgs    []string
	Categories    model.Vocabulary
}

// fileConfig is the YAML file layout.
type fileConfig struct {
	Organizations       []string `yaml:"organizations"`
	MemberOrganizations []string `yaml:"member_organizations"`
	Categories          []string `yaml:"categories"`
}

// LoadDotEnv loads variables from the given .env files without overriding
// variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from GOVSCAN_ environment variables and returns a
// validated Config. Every variable is optional:
//
//	GOVSCAN_GITHUB_TOKEN        bearer token (unauthenticated when empty)
//	GOVSCAN_GITHUB_API_URL      REST endpoint override
//	GOVSCAN_SOURCE              github (default) or csv
//	GOVSCAN_CSV_PATH            required when GOVSCAN_SOURCE=csv
//	GOVSCAN_FETCH_READMES       false
//	GOVSCAN_README_CONCURRENCY  1
//	GOVSCAN_CLASSIFY            false
//	GOVSCAN_CLASSIFIER_URL      DefaultClassifierURL
//	GOVSCAN_CLASSIFIER_TOKEN    bearer token for the classifier
//	GOVSCAN_LISTEN_ADDR         127.0.0.1:8080
//	GOVSCAN_DB_PATH             govscan.db
//	GOVSCAN_SECRET_KEY          64 hex chars; enables stored credentials
//	GOVSCAN_SESSION_LIMIT       64
//	GOVSCAN_HTTP_TIMEOUT        30s
//	GOVSCAN_CONFIG_FILE         YAML with organizations, member_organizations, categories
func Load() (*Config, error) {
	cfg := &Config{
		GitHubToken:       os.Getenv("GOVSCAN_GITHUB_TOKEN"),
		GitHubAPIURL:      os.Getenv("GOVSCAN_GITHUB_API_URL"),
		Source:            SourceGitHub,
		CSVPath:           os.Getenv("GOVSCAN_CSV_PATH"),
		ReadmeConcurrency: 1,
		ClassifierURL:     DefaultClassifierURL,
		ClassifierToken:   os.Getenv("GOVSCAN_CLASSIFIER_TOKEN"),
		ListenAddr:        "127.0.0.1:8080",
		DBPath:            "govscan.db",
		SessionLimit:      64,
		HTTPTimeout:       30 * time.Second,
		ConfigFile:        os.Getenv("GOVSCAN_CONFIG_FILE"),
		Organizations:     append([]string(nil), model.DefaultOrgs...),
		MemberOrgs:        append([]string(nil), model.DefaultMemberOrgs...),
		Categories:        model.DefaultVocabulary(),
	}

	if v, ok := os.LookupEnv("GOVSCAN_SOURCE"); ok && v != "" {
		switch v {
		case SourceGitHub, SourceCSV:
			cfg.Source = v
		default:
			return nil, fmt.Errorf("GOVSCAN_SOURCE must be %q or %q, got %q", SourceGitHub, SourceCSV, v)
		}
	}
	if cfg.Source == SourceCSV && cfg.CSVPath == "" {
		return nil, errors.New("GOVSCAN_CSV_PATH is required when GOVSCAN_SOURCE=csv")
	}

	var err error
	if cfg.FetchReadmes, err = boolEnv("GOVSCAN_FETCH_READMES", false); err != nil {
		return nil, err
	}
	if cfg.Classify, err = boolEnv("GOVSCAN_CLASSIFY", false); err != nil {
		return nil, err
	}
	if cfg.ReadmeConcurrency, err = positiveIntEnv("GOVSCAN_README_CONCURRENCY", cfg.ReadmeConcurrency); err != nil {
		return nil, err
	}
	if cfg.SessionLimit, err = positiveIntEnv("GOVSCAN_SESSION_LIMIT", cfg.SessionLimit); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("GOVSCAN_HTTP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("GOVSCAN_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("GOVSCAN_HTTP_TIMEOUT must be positive, got %s", v)
		}
		cfg.HTTPTimeout = parsed
	}

	if v, ok := os.LookupEnv("GOVSCAN_CLASSIFIER_URL"); ok && v != "" {
		cfg.ClassifierURL = v
	}
	if v, ok := os.LookupEnv("GOVSCAN_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("GOVSCAN_DB_PATH"); ok {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("GOVSCAN_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("GOVSCAN_SECRET_KEY must be hex-encoded: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("GOVSCAN_SECRET_KEY must be 64 hex chars (32 bytes), got %d bytes", len(key))
		}
		cfg.SecretKey = key
	}

	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// HasSecretKey reports whether stored credentials are enabled.
func (c *Config) HasSecretKey() bool {
	return c.SecretKey != nil
}

// applyFile overlays the lists set in the YAML file at path.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("GOVSCAN_CONFIG_FILE: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("GOVSCAN_CONFIG_FILE %s: %w", path, err)
	}

	if len(fc.Organizations) > 0 {
		c.Organizations = dedupe(fc.Organizations)
	}
	if fc.MemberOrganizations != nil {
		c.MemberOrgs = dedupe(fc.MemberOrganizations)
	}
	if len(fc.Categories) > 0 {
		vocab := make(model.Vocabulary, 0, len(fc.Categories))
		for _, label := range dedupe(fc.Categories) {
			if model.Category(label) == model.CategoryUnclassified {
				return fmt.Errorf("GOVSCAN_CONFIG_FILE %s: %q is reserved", path, label)
			}
			vocab = append(vocab, model.Category(label))
		}
		c.Categories = vocab
	}

	return nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func boolEnv(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", key, v, err)
	}
	return b, nil
}

func positiveIntEnv(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid integer %q: %w", key, v, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %d", key, n)
	}
	return n, nil
}
