package application

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// DefaultExportFilename is the suggested name of a downloaded export.
const DefaultExportFilename = "govtech_filtered_export.csv"

// baseColumns is the fixed export column order.
var baseColumns = []string{"language", "org", "year", "stars", "country", "description", "readme"}

// ExportColumns returns the export column order, with category appended when
// classification is enabled.
func ExportColumns(classified bool) []string {
	cols := append([]string(nil), baseColumns...)
	if classified {
		cols = append(cols, "category")
	}
	return cols
}

var columnValue = map[string]func(model.RepositoryRecord) string{
	"name":        func(r model.RepositoryRecord) string { return r.Name },
	"language":    func(r model.RepositoryRecord) string { return r.Language },
	"org":         func(r model.RepositoryRecord) string { return r.Org },
	"updated_at":  func(r model.RepositoryRecord) string { return r.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00") },
	"year":        func(r model.RepositoryRecord) string { return strconv.Itoa(r.UpdatedYear) },
	"stars":       func(r model.RepositoryRecord) string { return strconv.Itoa(r.Stars) },
	"country":     func(r model.RepositoryRecord) string { return string(r.Country) },
	"description": func(r model.RepositoryRecord) string { return r.Description },
	"readme":      func(r model.RepositoryRecord) string { return r.Readme },
	"url":         func(r model.RepositoryRecord) string { return r.URL },
	"category":    func(r model.RepositoryRecord) string { return string(r.Category) },
}

// WriteCSV writes a header row followed by one row per record, in the given
// record order. The whole table is buffered by the csv writer and flushed once.
func WriteCSV(w io.Writer, records []model.RepositoryRecord, columns []string) error {
	getters := make([]func(model.RepositoryRecord) string, len(columns))
	for i, col := range columns {
		get, ok := columnValue[col]
		if !ok {
			return fmt.Errorf("unknown export column %q", col)
		}
		getters[i] = get
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(columns))
	for _, r := range records {
		for i, get := range getters {
			row[i] = get(r)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %s: %w", r.FullName(), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
