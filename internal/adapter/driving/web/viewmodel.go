package web

import (
	"net/url"
	"slices"
	"strconv"
	"time"

	vm "github.com/ericfisherdev/govscan/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/domain/model"
)

const dashboardTitle = "Government GitHub Repositories"

// toDashboardViewModel converts a dashboard page into its view model.
// csrf is the token echoed by the refresh form.
func toDashboardViewModel(page *application.Page, classified bool, csrf string) vm.DashboardViewModel {
	query := application.Query(page.Filter).Encode()

	out := vm.DashboardViewModel{
		Title:       dashboardTitle,
		Source:      page.Source,
		FetchedAt:   page.FetchedAt.UTC().Format(time.RFC1123),
		Languages:   stringOptions(page.Options.Languages, page.Filter.Languages),
		Orgs:        stringOptions(page.Options.Orgs, page.Filter.Orgs),
		Years:       yearOptions(page.Options.Years, page.Filter.Years),
		Rows:        make([]vm.RowViewModel, 0, len(page.Rows)),
		Insights:    toInsightsViewModel(page.Insights),
		Classified:  classified,
		FilterOn:    page.Filter.IsActive(),
		ExportPath:  withQuery("/export.csv", query),
		RefreshPath: withQuery("/refresh", query),
		CSRFToken:   csrf,
	}

	for _, w := range page.Warnings {
		out.Warnings = append(out.Warnings, vm.WarningViewModel{Org: w.Org, Message: w.Message})
	}
	for _, r := range page.Rows {
		out.Rows = append(out.Rows, toRowViewModel(r))
	}

	return out
}

// errorDashboardViewModel is the page shown when no dataset could be loaded.
func errorDashboardViewModel(message, csrf string) vm.DashboardViewModel {
	return vm.DashboardViewModel{
		Title:       dashboardTitle,
		Insights:    toInsightsViewModel(model.Insights{}),
		RefreshPath: "/refresh",
		ExportPath:  "/export.csv",
		CSRFToken:   csrf,
		Error:       message,
	}
}

func toRowViewModel(r model.RepositoryRecord) vm.RowViewModel {
	return vm.RowViewModel{
		Name:        r.Name,
		Org:         r.Org,
		Language:    r.Language,
		Description: r.Description,
		Stars:       r.Stars,
		Updated:     r.UpdatedAt.UTC().Format("2006-01-02"),
		Year:        r.UpdatedYear,
		Country:     string(r.Country),
		Category:    string(r.Category),
		URL:         r.URL,
		DetailPath:  "/repos/" + url.PathEscape(r.Org) + "/" + url.PathEscape(r.Name),
	}
}

func toRepoDetailViewModel(r model.RepositoryRecord) vm.RepoDetailViewModel {
	return vm.RepoDetailViewModel{
		Row:        toRowViewModel(r),
		ReadmeHTML: RenderMarkdown(r.Readme),
		HasReadme:  r.Readme != "",
	}
}

func toInsightsViewModel(ins model.Insights) vm.InsightsViewModel {
	if !ins.HasData {
		return vm.InsightsViewModel{Total: ins.Total, Empty: true, EmptyMessage: model.NoDataMessage}
	}
	lang := ins.MostCommonLanguage
	if lang == "" {
		lang = "n/a"
	}
	return vm.InsightsViewModel{
		Total:              ins.Total,
		MostCommonLanguage: lang,
		LatestUpdate:       ins.LatestUpdateDate(),
	}
}

func stringOptions(values, selected []string) []vm.OptionViewModel {
	out := make([]vm.OptionViewModel, 0, len(values))
	for _, v := range values {
		out = append(out, vm.OptionViewModel{Value: v, Selected: slices.Contains(selected, v)})
	}
	return out
}

func yearOptions(values, selected []int) []vm.OptionViewModel {
	out := make([]vm.OptionViewModel, 0, len(values))
	for _, y := range values {
		out = append(out, vm.OptionViewModel{Value: strconv.Itoa(y), Selected: slices.Contains(selected, y)})
	}
	return out
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
