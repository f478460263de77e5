package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// RecordResponse is the JSON representation of one table row. Absent language
// and description are null.
type RecordResponse struct {
	Name        string  `json:"name"`
	Org         string  `json:"org"`
	Language    *string `json:"language"`
	Description *string `json:"description"`
	Stars       int     `json:"stars"`
	UpdatedAt   string  `json:"updated_at"`
	Year        int     `json:"year"`
	URL         string  `json:"url"`
	Country     string  `json:"country"`
	Category    string  `json:"category,omitempty"`
	HasReadme   bool    `json:"has_readme"`
}

// WarningResponse is a failed organization fetch.
type WarningResponse struct {
	Org        string `json:"org"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

// InsightsResponse holds the summaries of the filtered view. Language and
// latest update are omitted when there is no data.
type InsightsResponse struct {
	Total              int    `json:"total"`
	MostCommonLanguage string `json:"most_common_language,omitempty"`
	LatestUpdate       string `json:"latest_update,omitempty"`
	Message            string `json:"message,omitempty"`
}

// FiltersResponse lists the values offered by each filter.
type FiltersResponse struct {
	Languages []string `json:"languages"`
	Orgs      []string `json:"orgs"`
	Years     []int    `json:"years"`
}

// ReposResponse is the body of GET /api/v1/repos.
type ReposResponse struct {
	Source    string            `json:"source"`
	FetchedAt string            `json:"fetched_at"`
	Repos     []RecordResponse  `json:"repos"`
	Insights  InsightsResponse  `json:"insights"`
	Warnings  []WarningResponse `json:"warnings"`
}

// OrgResponse is a tracked organization.
type OrgResponse struct {
	Login    string `json:"login"`
	Position int    `json:"position"`
	AddedAt  string `json:"added_at"`
}

// AddOrgRequest is the JSON body for the add organization endpoint.
type AddOrgRequest struct {
	Login string `json:"login"`
}

// CredentialRequest is the JSON body for the credential endpoint.
type CredentialRequest struct {
	Value string `json:"value"`
}

// CredentialStatusResponse reports whether a token is stored.
type CredentialStatusResponse struct {
	Service    string `json:"service"`
	Configured bool   `json:"configured"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toRecordResponse(r model.RepositoryRecord) RecordResponse {
	return RecordResponse{
		Name:        r.Name,
		Org:         r.Org,
		Language:    optional(r.Language),
		Description: optional(r.Description),
		Stars:       r.Stars,
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
		Year:        r.UpdatedYear,
		URL:         r.URL,
		Country:     string(r.Country),
		Category:    string(r.Category),
		HasReadme:   r.Readme != "",
	}
}

func toInsightsResponse(ins model.Insights) InsightsResponse {
	if !ins.HasData {
		return InsightsResponse{Total: ins.Total, Message: model.NoDataMessage}
	}
	return InsightsResponse{
		Total:              ins.Total,
		MostCommonLanguage: ins.MostCommonLanguage,
		LatestUpdate:       ins.LatestUpdateDate(),
	}
}

func toFiltersResponse(opts model.FilterOptions) FiltersResponse {
	resp := FiltersResponse{
		Languages: opts.Languages,
		Orgs:      opts.Orgs,
		Years:     opts.Years,
	}
	if resp.Languages == nil {
		resp.Languages = []string{}
	}
	if resp.Orgs == nil {
		resp.Orgs = []string{}
	}
	if resp.Years == nil {
		resp.Years = []int{}
	}
	return resp
}

func toReposResponse(page *application.Page) ReposResponse {
	repos := make([]RecordResponse, 0, len(page.Rows))
	for _, r := range page.Rows {
		repos = append(repos, toRecordResponse(r))
	}

	warnings := make([]WarningResponse, 0, len(page.Warnings))
	for _, w := range page.Warnings {
		warnings = append(warnings, WarningResponse{Org: w.Org, StatusCode: w.StatusCode, Message: w.Message})
	}

	return ReposResponse{
		Source:    page.Source,
		FetchedAt: page.FetchedAt.UTC().Format(time.RFC3339),
		Repos:     repos,
		Insights:  toInsightsResponse(page.Insights),
		Warnings:  warnings,
	}
}

func toOrgResponse(org model.Organization) OrgResponse {
	return OrgResponse{
		Login:    org.Login,
		Position: org.Position,
		AddedAt:  org.AddedAt.UTC().Format(time.RFC3339),
	}
}
