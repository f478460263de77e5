// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/govscan/internal/adapter/driving/session"
	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	dashboard *application.DashboardService
	orgStore  driven.OrgStore
	creds     *application.CredentialService
	logger    *slog.Logger
}

// NewHandler creates a Handler. orgStore and creds may be nil when the
// database is not in use; their endpoints then answer 503.
func NewHandler(
	dashboard *application.DashboardService,
	orgStore driven.OrgStore,
	creds *application.CredentialService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		dashboard: dashboard,
		orgStore:  orgStore,
		creds:     creds,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers all /api/v1 routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/repos", h.ListRepos)
	mux.HandleFunc("GET /api/v1/filters", h.Filters)
	mux.HandleFunc("GET /api/v1/insights", h.Insights)
	mux.HandleFunc("GET /api/v1/export.csv", h.Export)
	mux.HandleFunc("POST /api/v1/refresh", h.Refresh)
	mux.HandleFunc("GET /api/v1/orgs", h.ListOrgs)
	mux.HandleFunc("POST /api/v1/orgs", h.AddOrg)
	mux.HandleFunc("DELETE /api/v1/orgs/{org}", h.RemoveOrg)
	mux.HandleFunc("GET /api/v1/credentials", h.CredentialStatus)
	mux.HandleFunc("PUT /api/v1/credentials/{service}", h.SetCredential)
}

// NewServeMux creates an http.Handler with all API routes registered and
// wrapped with session, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// ListRepos returns the filtered, star-sorted view with its insights and the
// warnings of the underlying fetch.
func (h *Handler) ListRepos(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toReposResponse(page))
}

// Filters returns the values offered by each filter.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	page, err := h.dashboard.Page(r.Context(), session.ID(r.Context()), model.Filter{})
	if err != nil {
		h.writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFiltersResponse(page.Options))
}

// Insights returns the summaries of the filtered view.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toInsightsResponse(page.Insights))
}

// Export streams the filtered view as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := application.ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.dashboard.Export(r.Context(), &buf, session.ID(r.Context()), filter); err != nil {
		h.writeLoadError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", application.DefaultExportFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Refresh discards the caller's cached dataset and fetches again.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	page, err := h.dashboard.Refresh(r.Context(), session.ID(r.Context()))
	if err != nil {
		h.writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReposResponse(page))
}

// ListOrgs returns the tracked organizations in scan order.
func (h *Handler) ListOrgs(w http.ResponseWriter, r *http.Request) {
	if h.orgStore == nil {
		writeError(w, http.StatusServiceUnavailable, "organization store not configured")
		return
	}

	orgs, err := h.orgStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list orgs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]OrgResponse, 0, len(orgs))
	for _, o := range orgs {
		resp = append(resp, toOrgResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddOrg appends an organization to the scan list. The change applies to the
// next load or refresh of each session.
func (h *Handler) AddOrg(w http.ResponseWriter, r *http.Request) {
	if h.orgStore == nil {
		writeError(w, http.StatusServiceUnavailable, "organization store not configured")
		return
	}

	var req AddOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := application.ValidateOrg(req.Login); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orgStore.Add(r.Context(), req.Login); err != nil {
		if errors.Is(err, driven.ErrOrgAlreadyExists) {
			writeError(w, http.StatusConflict, "organization already exists")
			return
		}
		h.logger.Error("failed to add org", "org", req.Login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, OrgResponse{
		Login:   req.Login,
		AddedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// RemoveOrg removes an organization from the scan list.
func (h *Handler) RemoveOrg(w http.ResponseWriter, r *http.Request) {
	if h.orgStore == nil {
		writeError(w, http.StatusServiceUnavailable, "organization store not configured")
		return
	}

	org := r.PathValue("org")
	if err := h.orgStore.Remove(r.Context(), org); err != nil {
		if errors.Is(err, driven.ErrOrgNotFound) {
			writeError(w, http.StatusNotFound, "organization not found")
			return
		}
		h.logger.Error("failed to remove org", "org", org, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CredentialStatus reports which services have a stored token.
func (h *Handler) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	if h.creds == nil {
		writeError(w, http.StatusServiceUnavailable, "credential store not configured")
		return
	}

	status, err := h.creds.Status(r.Context())
	if err != nil {
		h.writeCredentialError(w, err)
		return
	}

	resp := make([]CredentialStatusResponse, 0, len(status))
	for _, s := range status {
		resp = append(resp, CredentialStatusResponse{Service: s.Service, Configured: s.Configured})
	}
	writeJSON(w, http.StatusOK, resp)
}

// SetCredential stores the token for a service. An empty value clears it.
func (h *Handler) SetCredential(w http.ResponseWriter, r *http.Request) {
	if h.creds == nil {
		writeError(w, http.StatusServiceUnavailable, "credential store not configured")
		return
	}

	var req CredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	service := r.PathValue("service")
	if err := h.creds.Update(r.Context(), service, req.Value); err != nil {
		h.writeCredentialError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// page parses the filter query and returns the session's page. It writes the
// error response itself and reports false on failure.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) (*application.Page, bool) {
	filter, err := application.ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	page, err := h.dashboard.Page(r.Context(), session.ID(r.Context()), filter)
	if err != nil {
		h.writeLoadError(w, err)
		return nil, false
	}
	return page, true
}

func (h *Handler) writeLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrSourceUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, application.ErrNoGitHubClient):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("failed to load dataset", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) writeCredentialError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrUnknownService):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, driven.ErrEncryptionKeyNotSet):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("credential operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
