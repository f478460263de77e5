// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/govscan/internal/adapter/driving/session"
	"github.com/ericfisherdev/govscan/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/govscan/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/govscan/internal/application"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	dashboard *application.DashboardService
	logger    *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(dashboard *application.DashboardService, logger *slog.Logger) *Handler {
	return &Handler{dashboard: dashboard, logger: logger}
}

// Dashboard renders the filtered table for the caller's session.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sid := session.Ensure(w, r)
	token := csrfToken(w, r)

	filter, err := application.ParseFilter(r.URL.Query())
	if err != nil {
		h.render(w, r, http.StatusBadRequest, dashboardTitle,
			pages.Dashboard(errorDashboardViewModel(err.Error(), token)))
		return
	}

	page, err := h.dashboard.Page(r.Context(), sid, filter)
	if err != nil {
		status, msg := h.loadFailure(err)
		h.render(w, r, status, dashboardTitle, pages.Dashboard(errorDashboardViewModel(msg, token)))
		return
	}

	m := toDashboardViewModel(page, h.dashboard.Classified(), token)
	h.render(w, r, http.StatusOK, dashboardTitle, pages.Dashboard(m))
}

// RepoDetail renders one repository with its README.
func (h *Handler) RepoDetail(w http.ResponseWriter, r *http.Request) {
	sid := session.Ensure(w, r)
	org, name := r.PathValue("org"), r.PathValue("name")

	rec, err := h.dashboard.Find(r.Context(), sid, org, name)
	if errors.Is(err, application.ErrRecordNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		status, msg := h.loadFailure(err)
		http.Error(w, msg, status)
		return
	}

	h.render(w, r, http.StatusOK, rec.FullName(), pages.RepoDetail(toRepoDetailViewModel(*rec)))
}

// Export downloads the filtered view as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	sid := session.Ensure(w, r)

	filter, err := application.ParseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.dashboard.Export(r.Context(), &buf, sid, filter); err != nil {
		status, msg := h.loadFailure(err)
		http.Error(w, msg, status)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", application.DefaultExportFilename))
	_, _ = w.Write(buf.Bytes())
}

// Refresh reloads the session dataset and redirects back to the dashboard with
// the same filter query.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	sid := session.Ensure(w, r)
	if _, err := h.dashboard.Refresh(r.Context(), sid); err != nil {
		// The dashboard shows the failure on the next load.
		h.logger.Warn("refresh failed", "error", err)
	}

	target := "/"
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	var buf bytes.Buffer
	if err := templates.Layout(title, body).Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) loadFailure(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrSourceUnavailable):
		return http.StatusBadGateway, "GitHub could not be reached. Check the network connection and refresh."
	case errors.Is(err, application.ErrNoGitHubClient):
		return http.StatusServiceUnavailable, "No GitHub client is configured."
	default:
		h.logger.Error("failed to load dataset", "error", err)
		return http.StatusInternalServerError, "The repository data could not be loaded."
	}
}
