// Package csvfile loads repository records from a flat CSV export.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RecordSource = (*Source)(nil)

// requiredColumns must all appear in the header row.
var requiredColumns = []string{"language", "org", "updated_at", "stars", "description", "readme"}

// timeLayouts are tried in order when parsing updated_at.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Source reads a CSV file of repository records. The file is never written.
type Source struct {
	path    string
	members []string
}

// NewSource creates a Source for path. members is the member-organization list
// used to derive the country label when the file has no country column.
func NewSource(path string, members []string) *Source {
	return &Source{path: path, members: members}
}

// Location returns the file path.
func (s *Source) Location() string {
	return s.path
}

// ReadRecords opens the file and parses every row.
func (s *Source) ReadRecords(ctx context.Context) ([]model.RepositoryRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := Parse(ctx, f, s.members)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", s.path, err)
	}
	return records, nil
}

// Parse reads records from r. Header names are matched case-insensitively and
// unknown columns are ignored. Optional columns: name, url, country, category.
func Parse(ctx context.Context, r io.Reader, members []string) ([]model.RepositoryRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var records []model.RepositoryRecord
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, idx, members)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string, idx map[string]int, members []string) (model.RepositoryRecord, error) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	updatedAt, err := parseTime(field("updated_at"))
	if err != nil {
		return model.RepositoryRecord{}, err
	}

	stars, err := parseStars(absentIfNaN(field("stars")))
	if err != nil {
		return model.RepositoryRecord{}, err
	}

	org := field("org")
	rec := model.RepositoryRecord{
		Name:        field("name"),
		Org:         org,
		Language:    absentIfNaN(field("language")),
		Description: absentIfNaN(field("description")),
		Stars:       stars,
		UpdatedAt:   updatedAt,
		UpdatedYear: model.YearOf(updatedAt),
		URL:         webURL(field("url")),
		Readme:      field("readme"),
		Country:     model.CountryFor(org, members),
		Category:    model.Category(field("category")),
	}

	switch model.CountryLabel(field("country")) {
	case model.CountryMember, model.CountryNonMember:
		rec.Country = model.CountryLabel(field("country"))
	}

	return rec, nil
}

// parseStars accepts whole, non-negative counts. Float-formatted counts
// ("12.0") come from dataframe exports; an empty value is zero.
func parseStars(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("stars %q: %w", v, err)
	}
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, fmt.Errorf("stars %q: not a finite number", v)
	case f < 0:
		return 0, fmt.Errorf("stars %q: negative count", v)
	case f > math.MaxInt32:
		return 0, fmt.Errorf("stars %q: count out of range", v)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("stars %q: not a whole number", v)
	}
	return int(f), nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("updated_at %q: unrecognized time format", s)
}

// webURL keeps absolute http(s) links and drops anything else.
func webURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return raw
	}
	return ""
}

// absentIfNaN maps the placeholders dataframe tools write for missing values to "".
func absentIfNaN(s string) string {
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}
