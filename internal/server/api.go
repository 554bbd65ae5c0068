package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nobrega8/netscan2/internal/catalog"
	"github.com/nobrega8/netscan2/internal/sweep"
	"github.com/nobrega8/netscan2/pkg/models"
)

// SweepController is the part of the sweep engine the API needs.
type SweepController interface {
	Start(ctx context.Context) (string, error)
	Stop()
	State() sweep.State
	LastResult() *models.SweepResult
}

// Catalog is the part of the catalog service the API needs.
type Catalog interface {
	Networks() []*models.Network
	Network(id string) (*models.Network, error)
	SelectNetwork(id string) error
	SelectedNetwork() string
	DeleteNetwork(id string) error
	UpdateEmoji(networkID, emoji string) error
	UpdateDevice(networkID string, device *models.Device) error
	MergeDevices(networkID string, macs []string) (*models.Device, error)
	ExportCSV(w io.Writer, networkID string, includeStatus bool) error
}

// IconStore persists per-device icon assignments.
type IconStore interface {
	PathFor(mac string) string
	Set(mac, path string) error
	Remove(mac string) error
}

// SweepLog lists past sweeps.
type SweepLog interface {
	ListSweeps(ctx context.Context, limit int) ([]*models.SweepResult, error)
}

// API serves the versioned REST endpoints.
type API struct {
	engine  SweepController
	catalog Catalog
	icons   IconStore
	history SweepLog
	logger  *zap.Logger
}

// NewAPI creates the REST API handler set.
func NewAPI(engine SweepController, cat Catalog, icons IconStore, history SweepLog, logger *zap.Logger) *API {
	return &API{
		engine:  engine,
		catalog: cat,
		icons:   icons,
		history: history,
		logger:  logger,
	}
}

// RegisterRoutes mounts all API routes on the server mux.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/sweep", a.handleStartSweep)
	mux.HandleFunc("DELETE /api/v1/sweep", a.handleCancelSweep)
	mux.HandleFunc("GET /api/v1/sweep", a.handleSweepStatus)
	mux.HandleFunc("GET /api/v1/sweeps", a.handleListSweeps)

	mux.HandleFunc("GET /api/v1/networks", a.handleListNetworks)
	mux.HandleFunc("GET /api/v1/networks/selected", a.handleSelectedNetwork)
	mux.HandleFunc("PUT /api/v1/networks/selected", a.handleSelectNetwork)
	mux.HandleFunc("GET /api/v1/networks/{id}", a.handleGetNetwork)
	mux.HandleFunc("DELETE /api/v1/networks/{id}", a.handleDeleteNetwork)
	mux.HandleFunc("PUT /api/v1/networks/{id}/emoji", a.handleUpdateEmoji)
	mux.HandleFunc("GET /api/v1/networks/{id}/export", a.handleExportCSV)
	mux.HandleFunc("PUT /api/v1/networks/{id}/devices/{mac}", a.handleUpdateDevice)
	mux.HandleFunc("POST /api/v1/networks/{id}/devices/merge", a.handleMergeDevices)

	mux.HandleFunc("PUT /api/v1/icons/{mac}", a.handleSetIcon)
	mux.HandleFunc("DELETE /api/v1/icons/{mac}", a.handleRemoveIcon)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleStartSweep launches a background sweep. The sweep outlives the
// request, so it runs under its own context, not the request's.
func (a *API) handleStartSweep(w http.ResponseWriter, r *http.Request) {
	id, err := a.engine.Start(context.Background())
	if err != nil {
		if errors.Is(err, sweep.ErrSweepInProgress) {
			Conflict(w, err.Error(), r.URL.Path)
			return
		}
		InternalError(w, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (a *API) handleCancelSweep(w http.ResponseWriter, _ *http.Request) {
	a.engine.Stop()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancelling"})
}

// SweepStatusResponse is the response for GET /api/v1/sweep.
type SweepStatusResponse struct {
	State sweep.State         `json:"state"`
	Last  *models.SweepResult `json:"last,omitempty"`
}

func (a *API) handleSweepStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SweepStatusResponse{
		State: a.engine.State(),
		Last:  a.engine.LastResult(),
	})
}

func (a *API) handleListSweeps(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			BadRequest(w, "limit must be a positive integer", r.URL.Path)
			return
		}
		limit = n
	}
	sweeps, err := a.history.ListSweeps(r.Context(), limit)
	if err != nil {
		a.logger.Error("failed to list sweeps", zap.Error(err))
		InternalError(w, "failed to list sweeps", r.URL.Path)
		return
	}
	if sweeps == nil {
		sweeps = []*models.SweepResult{}
	}
	writeJSON(w, http.StatusOK, sweeps)
}

func (a *API) handleListNetworks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.catalog.Networks())
}

func (a *API) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	network, err := a.catalog.Network(r.PathValue("id"))
	if err != nil {
		NotFound(w, "network not found", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, network)
}

func (a *API) handleDeleteNetwork(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.DeleteNetwork(r.PathValue("id")); err != nil {
		NotFound(w, "network not found", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectNetworkRequest is the body for PUT /api/v1/networks/selected.
type SelectNetworkRequest struct {
	ID string `json:"id"`
}

func (a *API) handleSelectNetwork(w http.ResponseWriter, r *http.Request) {
	var req SelectNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		BadRequest(w, "body must contain a network id", r.URL.Path)
		return
	}
	if err := a.catalog.SelectNetwork(req.ID); err != nil {
		NotFound(w, "network not found", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID})
}

func (a *API) handleSelectedNetwork(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"id": a.catalog.SelectedNetwork()})
}

// UpdateEmojiRequest is the body for PUT /api/v1/networks/{id}/emoji.
type UpdateEmojiRequest struct {
	Emoji string `json:"emoji"`
}

func (a *API) handleUpdateEmoji(w http.ResponseWriter, r *http.Request) {
	var req UpdateEmojiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Emoji == "" {
		BadRequest(w, "body must contain an emoji", r.URL.Path)
		return
	}
	if err := a.catalog.UpdateEmoji(r.PathValue("id"), req.Emoji); err != nil {
		NotFound(w, "network not found", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	var device models.Device
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		BadRequest(w, "invalid device body", r.URL.Path)
		return
	}
	device.MAC = r.PathValue("mac")

	if err := a.catalog.UpdateDevice(r.PathValue("id"), &device); err != nil {
		NotFound(w, "network or device not found", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MergeDevicesRequest is the body for POST .../devices/merge. The first MAC
// is the surviving record.
type MergeDevicesRequest struct {
	MACs []string `json:"macs"`
}

func (a *API) handleMergeDevices(w http.ResponseWriter, r *http.Request) {
	var req MergeDevicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.MACs) < 2 {
		BadRequest(w, "body must contain at least two macs", r.URL.Path)
		return
	}
	merged, err := a.catalog.MergeDevices(r.PathValue("id"), req.MACs)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			NotFound(w, "network or device not found", r.URL.Path)
			return
		}
		InternalError(w, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func (a *API) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	includeStatus := r.URL.Query().Get("status") == "true"

	if _, err := a.catalog.Network(id); err != nil {
		NotFound(w, "network not found", r.URL.Path)
		return
	}

	filename := fmt.Sprintf("devices-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := a.catalog.ExportCSV(w, id, includeStatus); err != nil {
		a.logger.Error("csv export failed", zap.String("network_id", id), zap.Error(err))
	}
}

// SetIconRequest is the body for PUT /api/v1/icons/{mac}.
type SetIconRequest struct {
	Path string `json:"path"`
}

func (a *API) handleSetIcon(w http.ResponseWriter, r *http.Request) {
	var req SetIconRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		BadRequest(w, "body must contain an icon path", r.URL.Path)
		return
	}
	if err := a.icons.Set(r.PathValue("mac"), req.Path); err != nil {
		a.logger.Error("failed to persist icon", zap.Error(err))
		InternalError(w, "failed to persist icon", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRemoveIcon(w http.ResponseWriter, r *http.Request) {
	if err := a.icons.Remove(r.PathValue("mac")); err != nil {
		a.logger.Error("failed to remove icon", zap.Error(err))
		InternalError(w, "failed to remove icon", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
