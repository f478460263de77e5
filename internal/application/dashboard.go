package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// ErrRecordNotFound is returned by Find when the session dataset has no such repository.
var ErrRecordNotFound = errors.New("repository not found")

// Page is everything one dashboard render needs.
type Page struct {
	Filter    model.Filter
	Rows      []model.RepositoryRecord
	Insights  model.Insights
	Options   model.FilterOptions
	Warnings  []model.Warning
	Source    string
	FetchedAt time.Time
}

// DashboardService turns the session dataset into filtered pages and exports.
type DashboardService struct {
	cache      *DatasetCache
	classified bool
}

// NewDashboardService creates a DashboardService. classified adds the category
// column to exports.
func NewDashboardService(cache *DatasetCache, classified bool) *DashboardService {
	return &DashboardService{cache: cache, classified: classified}
}

// Classified reports whether records carry a category.
func (s *DashboardService) Classified() bool {
	return s.classified
}

// Page returns the filtered view of the session dataset. Insights are computed
// over the filtered rows; filter options over the whole dataset.
func (s *DashboardService) Page(ctx context.Context, sessionID string, filter model.Filter) (*Page, error) {
	ds, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildPage(ds, filter), nil
}

// Refresh reloads the session dataset and returns its unfiltered page.
func (s *DashboardService) Refresh(ctx context.Context, sessionID string) (*Page, error) {
	ds, err := s.cache.Refresh(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildPage(ds, model.Filter{}), nil
}

// Find returns the record named org/name from the session dataset.
func (s *DashboardService) Find(ctx context.Context, sessionID, org, name string) (*model.RepositoryRecord, error) {
	ds, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range ds.Records {
		if ds.Records[i].Org == org && ds.Records[i].Name == name {
			rec := ds.Records[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("%s/%s: %w", org, name, ErrRecordNotFound)
}

// Export writes the filtered view as CSV.
func (s *DashboardService) Export(ctx context.Context, w io.Writer, sessionID string, filter model.Filter) error {
	page, err := s.Page(ctx, sessionID, filter)
	if err != nil {
		return err
	}
	return WriteCSV(w, page.Rows, ExportColumns(s.classified))
}

func buildPage(ds *model.Dataset, filter model.Filter) *Page {
	rows := BuildView(ds.Records, filter)
	return &Page{
		Filter:    filter,
		Rows:      rows,
		Insights:  ComputeInsights(rows),
		Options:   Options(ds.Records),
		Warnings:  ds.Warnings,
		Source:    ds.Source,
		FetchedAt: ds.FetchedAt,
	}
}
