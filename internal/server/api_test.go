package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/nobrega8/netscan2/internal/catalog"
	"github.com/nobrega8/netscan2/internal/sweep"
	"github.com/nobrega8/netscan2/pkg/models"
)

type fakeEngine struct {
	startErr error
	startID  string
	stopped  bool
	state    sweep.State
	last     *models.SweepResult
}

func (f *fakeEngine) Start(context.Context) (string, error) { return f.startID, f.startErr }
func (f *fakeEngine) Stop()                                 { f.stopped = true }
func (f *fakeEngine) State() sweep.State                    { return f.state }
func (f *fakeEngine) LastResult() *models.SweepResult       { return f.last }

type fakeCatalog struct {
	networks []*models.Network
	selected string
	updated  *models.Device
	deleted  string
}

func (f *fakeCatalog) Networks() []*models.Network { return f.networks }

func (f *fakeCatalog) Network(id string) (*models.Network, error) {
	for _, n := range f.networks {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) SelectNetwork(id string) error {
	if _, err := f.Network(id); err != nil {
		return err
	}
	f.selected = id
	return nil
}

func (f *fakeCatalog) SelectedNetwork() string { return f.selected }

func (f *fakeCatalog) DeleteNetwork(id string) error {
	if _, err := f.Network(id); err != nil {
		return err
	}
	f.deleted = id
	return nil
}

func (f *fakeCatalog) UpdateEmoji(id, _ string) error {
	_, err := f.Network(id)
	return err
}

func (f *fakeCatalog) UpdateDevice(id string, device *models.Device) error {
	if _, err := f.Network(id); err != nil {
		return err
	}
	f.updated = device
	return nil
}

func (f *fakeCatalog) MergeDevices(id string, macs []string) (*models.Device, error) {
	if _, err := f.Network(id); err != nil {
		return nil, err
	}
	return &models.Device{MAC: macs[0]}, nil
}

func (f *fakeCatalog) ExportCSV(w io.Writer, id string, _ bool) error {
	if _, err := f.Network(id); err != nil {
		return err
	}
	_, err := io.WriteString(w, "ip,mac,hostname,owner,brand,model\n")
	return err
}

type fakeIcons struct{ set map[string]string }

func (f *fakeIcons) PathFor(mac string) string { return f.set[mac] }

func (f *fakeIcons) Set(mac, path string) error {
	if f.set == nil {
		f.set = map[string]string{}
	}
	f.set[mac] = path
	return nil
}

func (f *fakeIcons) Remove(mac string) error {
	delete(f.set, mac)
	return nil
}

type fakeHistory struct{ sweeps []*models.SweepResult }

func (f *fakeHistory) ListSweeps(_ context.Context, limit int) ([]*models.SweepResult, error) {
	if limit < len(f.sweeps) {
		return f.sweeps[:limit], nil
	}
	return f.sweeps, nil
}

func newTestAPI(engine *fakeEngine, cat *fakeCatalog) (*API, *http.ServeMux) {
	if engine == nil {
		engine = &fakeEngine{startID: "sweep-1"}
	}
	if cat == nil {
		cat = &fakeCatalog{}
	}
	api := NewAPI(engine, cat, &fakeIcons{}, &fakeHistory{}, zap.NewNop())
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return api, mux
}

func TestStartSweep(t *testing.T) {
	_, mux := newTestAPI(&fakeEngine{startID: "sweep-1"}, nil)

	req := httptest.NewRequest("POST", "/api/v1/sweep", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusAccepted)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != "sweep-1" {
		t.Errorf("id = %q", body["id"])
	}
}

func TestStartSweep_AlreadyRunning(t *testing.T) {
	_, mux := newTestAPI(&fakeEngine{startErr: sweep.ErrSweepInProgress}, nil)

	req := httptest.NewRequest("POST", "/api/v1/sweep", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestCancelSweep(t *testing.T) {
	engine := &fakeEngine{}
	_, mux := newTestAPI(engine, nil)

	req := httptest.NewRequest("DELETE", "/api/v1/sweep", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	if !engine.stopped {
		t.Error("Stop was not called")
	}
}

func TestSweepStatus(t *testing.T) {
	engine := &fakeEngine{
		state: sweep.StateSweeping,
		last:  &models.SweepResult{ID: "sweep-1", Status: models.SweepStatusRunning},
	}
	_, mux := newTestAPI(engine, nil)

	req := httptest.NewRequest("GET", "/api/v1/sweep", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body SweepStatusResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.State != sweep.StateSweeping {
		t.Errorf("state = %q", body.State)
	}
	if body.Last == nil || body.Last.ID != "sweep-1" {
		t.Errorf("last = %+v", body.Last)
	}
}

func TestGetNetwork_NotFound(t *testing.T) {
	_, mux := newTestAPI(nil, &fakeCatalog{})

	req := httptest.NewRequest("GET", "/api/v1/networks/nope", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSelectNetwork(t *testing.T) {
	cat := &fakeCatalog{networks: []*models.Network{{ID: "net-1", SSID: "HomeNet"}}}
	_, mux := newTestAPI(nil, cat)

	req := httptest.NewRequest("PUT", "/api/v1/networks/selected",
		strings.NewReader(`{"id":"net-1"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if cat.selected != "net-1" {
		t.Errorf("selected = %q", cat.selected)
	}
}

func TestUpdateDevice_MACFromPath(t *testing.T) {
	cat := &fakeCatalog{networks: []*models.Network{{ID: "net-1"}}}
	_, mux := newTestAPI(nil, cat)

	req := httptest.NewRequest("PUT", "/api/v1/networks/net-1/devices/AA:BB:CC:DD:EE:01",
		strings.NewReader(`{"owner":"alice","mac":"ignored"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if cat.updated == nil || cat.updated.MAC != "AA:BB:CC:DD:EE:01" {
		t.Errorf("updated = %+v, want MAC from path", cat.updated)
	}
	if cat.updated.Owner != "alice" {
		t.Errorf("owner = %q", cat.updated.Owner)
	}
}

func TestMergeDevices_RequiresTwoMACs(t *testing.T) {
	cat := &fakeCatalog{networks: []*models.Network{{ID: "net-1"}}}
	_, mux := newTestAPI(nil, cat)

	req := httptest.NewRequest("POST", "/api/v1/networks/net-1/devices/merge",
		strings.NewReader(`{"macs":["AA:BB:CC:DD:EE:01"]}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	cat := &fakeCatalog{networks: []*models.Network{{ID: "net-1"}}}
	_, mux := newTestAPI(nil, cat)

	req := httptest.NewRequest("GET", "/api/v1/networks/net-1/export", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestSetAndRemoveIcon(t *testing.T) {
	icons := &fakeIcons{}
	api := NewAPI(&fakeEngine{}, &fakeCatalog{}, icons, &fakeHistory{}, zap.NewNop())
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	req := httptest.NewRequest("PUT", "/api/v1/icons/AA:BB:CC:DD:EE:01",
		strings.NewReader(`{"path":"/icons/router.png"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("set status = %d", w.Code)
	}
	if icons.PathFor("AA:BB:CC:DD:EE:01") != "/icons/router.png" {
		t.Error("icon not stored")
	}

	req = httptest.NewRequest("DELETE", "/api/v1/icons/AA:BB:CC:DD:EE:01", http.NoBody)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d", w.Code)
	}
	if icons.PathFor("AA:BB:CC:DD:EE:01") != "" {
		t.Error("icon not removed")
	}
}

func TestHandleHealthz(t *testing.T) {
	srv := New("127.0.0.1:0", zap.NewNop(), nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleReadyz_NotReady(t *testing.T) {
	ready := ReadinessChecker(func(context.Context) error {
		return errors.New("catalog not loaded")
	})
	srv := New("127.0.0.1:0", zap.NewNop(), ready)

	req := httptest.NewRequest("GET", "/readyz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
