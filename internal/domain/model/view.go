package model

import "time"

// Filter holds the user's multi-value selections. An empty slice leaves that
// dimension inactive.
type Filter struct {
	Languages []string
	Orgs      []string
	Years     []int
}

// IsActive reports whether any dimension has a selection.
func (f Filter) IsActive() bool {
	return len(f.Languages) > 0 || len(f.Orgs) > 0 || len(f.Years) > 0
}

// FilterOptions lists the values offered by each filter control.
type FilterOptions struct {
	Languages []string
	Orgs      []string
	Years     []int // Most recent first.
}

// Insights are the scalar summaries shown above the table. MostCommonLanguage
// and LatestUpdate are only meaningful when HasData is true.
type Insights struct {
	Total              int
	MostCommonLanguage string
	LatestUpdate       time.Time
	HasData            bool
}

// NoDataMessage is shown in place of insights for an empty table.
const NoDataMessage = "No data to display based on current filters."

// LatestUpdateDate renders LatestUpdate as a calendar date.
func (i Insights) LatestUpdateDate() string {
	if !i.HasData {
		return ""
	}
	return i.LatestUpdate.UTC().Format("2006-01-02")
}
