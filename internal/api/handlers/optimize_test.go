package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybrid-sizer/internal/api/models"
)

func testRouter(storageDir string) (*gin.Engine, *OptimizeHandler) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewOptimizeHandler(storageDir)
	s := NewStorageHandler(storageDir)

	api := router.Group("/api/v1")
	api.POST("/optimize", h.RunOptimize)
	api.GET("/optimize/:id/dispatch", h.GetDispatch)
	api.GET("/optimize/:id/windows", h.GetWindows)
	api.GET("/storage", s.ListStorage)
	return router, h
}

func optimizeRequest() models.OptimizeRequest {
	load := make([]float64, 48)
	pv := make([]float64, 48)
	for h := range load {
		load[h] = 100
		pv[h] = 100
	}
	return models.OptimizeRequest{
		Project: models.ProjectRequest{DiscountRate: 0.08, InflationRate: 0.02, LifetimeYears: 25, TargetUnmetPercent: 5},
		Solar:   models.SolarRequest{CapexPerKW: 800, OMPerKWYear: 10, LifetimeYears: 25, BaselineKW: 1000},
		Wind:    models.WindRequest{LifetimeYears: 20},
		Hydro:   models.HydroRequest{Enabled: true, CapexPerKW: 2500, OMPerKWYear: 50, LifetimeYears: 30, HoursPerDay: 8},
		Storage: models.StorageRequest{
			DurationHours: 4, PowerCapexPerKW: 300, EnergyCapexPerKWh: 250,
			OMPerKWYear: 8, LifetimeYears: 10,
			ChargeEfficiency: 0.95, DischargeEfficiency: 0.95,
			MinSOC: 0.1, MaxSOC: 0.9,
		},
		Search: models.SearchRequest{
			PV:      models.RangeRequest{Start: 0, End: 1000, Step: 500},
			Wind:    models.RangeRequest{Start: 0, End: 0, Step: 1},
			Hydro:   models.RangeRequest{Start: 0, End: 100, Step: 100},
			Storage: models.RangeRequest{Start: 0, End: 50, Step: 50},
		},
		Profiles: models.ProfilesRequest{LoadKW: load, PVOutputKW: pv},
	}
}

func postOptimize(t *testing.T, router *gin.Engine, req models.OptimizeRequest) models.OptimizeResponse {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.OptimizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRunOptimize(t *testing.T) {
	router, _ := testRouter(t.TempDir())

	req := optimizeRequest()
	req.Options.IncludeResults = true
	resp := postOptimize(t, router, req)

	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 12, resp.Summary.CombinationsTested)
	assert.True(t, resp.Summary.OptimalFound)
	require.NotNil(t, resp.Summary.Optimal)
	assert.Equal(t, 1000.0, resp.Summary.Optimal.PVKW)
	assert.True(t, resp.Summary.Optimal.Feasible)
	assert.Len(t, resp.Results, 12)
}

func TestRunOptimizeRejectsInvalidConfig(t *testing.T) {
	router, _ := testRouter(t.TempDir())

	req := optimizeRequest()
	req.Search.PV.Step = 0
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
}

func TestRunOptimizeRejectsOversizedSpace(t *testing.T) {
	router, _ := testRouter(t.TempDir())

	req := optimizeRequest()
	req.Search.MaxCombinations = 2
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TOO_MANY_COMBINATIONS", resp.Error.Code)
}

func TestGetDispatchForStoredRun(t *testing.T) {
	router, _ := testRouter(t.TempDir())
	resp := postOptimize(t, router, optimizeRequest())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/optimize/"+resp.ID+"/dispatch", nil)
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var dr models.DispatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dr))
	assert.Equal(t, resp.ID, dr.ID)
	assert.Equal(t, 48, dr.Hours)
	require.Len(t, dr.Trace, 48)
	assert.Equal(t, 100.0, dr.Trace[0].LoadKW)
}

func TestGetWindowsForStoredRun(t *testing.T) {
	router, _ := testRouter(t.TempDir())
	resp := postOptimize(t, router, optimizeRequest())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/optimize/"+resp.ID+"/windows", nil)
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var wr models.WindowsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wr))
	require.Len(t, wr.Windows, 17)
	assert.Equal(t, 1, wr.Windows[0].Rank)
	for i := 1; i < len(wr.Windows); i++ {
		assert.LessOrEqual(t, wr.Windows[i-1].UnmetPercent, wr.Windows[i].UnmetPercent)
	}
}

func TestGetDispatchUnknownRun(t *testing.T) {
	router, _ := testRouter(t.TempDir())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/optimize/nope/dispatch", nil)
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptimizeWithStoragePreset(t *testing.T) {
	dir := t.TempDir()
	preset := `
storage:
  name: lfp-4h
  duration_hours: 4
  power_capex_per_kw: 320
  energy_capex_per_kwh: 260
  om_per_kw_year: 8
  lifetime_years: 12
  charge_efficiency: 0.96
  discharge_efficiency: 0.96
  min_soc: 0.1
  max_soc: 0.9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lfp-4h.yaml"), []byte(preset), 0o644))
	router, _ := testRouter(dir)

	req := optimizeRequest()
	req.Storage = models.StorageRequest{StorageFile: "lfp-4h"}
	resp := postOptimize(t, router, req)
	assert.True(t, resp.Summary.OptimalFound)
}

func TestListStoragePresets(t *testing.T) {
	dir := t.TempDir()
	preset := "storage:\n  name: lfp-4h\n  duration_hours: 4\n  power_capex_per_kw: 320\n  energy_capex_per_kwh: 260\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lfp-4h.yaml"), []byte(preset), 0o644))
	router, _ := testRouter(dir)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/storage", nil)
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Storage []models.StorageInfo `json:"storage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Storage, 1)
	assert.Equal(t, "lfp-4h", resp.Storage[0].ID)
	assert.Equal(t, 4.0, resp.Storage[0].Specs.DurationHours)
}
