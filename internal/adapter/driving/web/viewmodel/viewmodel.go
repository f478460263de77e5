// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// DashboardViewModel holds everything the dashboard page renders.
type DashboardViewModel struct {
	Title      string
	Source     string
	FetchedAt  string
	Languages  []OptionViewModel
	Orgs       []OptionViewModel
	Years      []OptionViewModel
	Warnings   []WarningViewModel
	Rows       []RowViewModel
	Insights   InsightsViewModel
	Classified bool
	FilterOn   bool
	// ExportPath carries the current filter query.
	ExportPath  string
	RefreshPath string
	CSRFToken   string
	Error       string
}

// OptionViewModel is one choice of a multi-select filter.
type OptionViewModel struct {
	Value    string
	Selected bool
}

// WarningViewModel is a failed organization fetch.
type WarningViewModel struct {
	Org     string
	Message string
}

// RowViewModel is one table row.
type RowViewModel struct {
	Name        string
	Org         string
	Language    string
	Description string
	Stars       int
	Updated     string
	Year        int
	Country     string
	Category    string
	URL         string
	DetailPath  string
}

// InsightsViewModel holds the summaries shown above the table.
type InsightsViewModel struct {
	Total              int
	MostCommonLanguage string
	LatestUpdate       string
	Empty              bool
	EmptyMessage       string
}

// RepoDetailViewModel holds presentation-ready data for one repository.
type RepoDetailViewModel struct {
	Row RowViewModel
	// ReadmeHTML is sanitized markdown output, safe to emit unescaped.
	ReadmeHTML string
	HasReadme  bool
}
