package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hybrid-sizer/internal/api/models"
	"hybrid-sizer/internal/config"
	"hybrid-sizer/internal/dispatch"
	"hybrid-sizer/internal/model"
	"hybrid-sizer/internal/optimize"
)

// OptimizeHandler handles optimization-related requests. Completed runs are
// kept in memory so the dispatch and window endpoints can serve follow-up
// queries without re-running the search.
type OptimizeHandler struct {
	storageDir string

	mu   sync.RWMutex
	runs map[string]*storedRun
}

type storedRun struct {
	Inputs  optimize.Inputs
	Outcome *optimize.Outcome
}

// NewOptimizeHandler creates a new optimize handler.
func NewOptimizeHandler(storageDir string) *OptimizeHandler {
	return &OptimizeHandler{
		storageDir: storageDir,
		runs:       make(map[string]*storedRun),
	}
}

// RunOptimize handles POST /api/v1/optimize
func (h *OptimizeHandler) RunOptimize(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	in, err := h.buildInputs(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}
	if in.ExceedsMaxCombinations() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "TOO_MANY_COMBINATIONS",
				Message: "search space exceeds max_combinations",
				Details: map[string]interface{}{
					"combinations":     in.Space.Combinations(),
					"max_combinations": in.Space.MaxCombinations,
				},
			},
		})
		return
	}

	out, err := optimize.Search(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SEARCH_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.runs[id] = &storedRun{Inputs: in, Outcome: out}
	h.mu.Unlock()

	c.JSON(http.StatusOK, h.buildResponse(id, out, req.Options.IncludeResults))
}

// GetDispatch handles GET /api/v1/optimize/:id/dispatch
func (h *OptimizeHandler) GetDispatch(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	opt := run.Outcome.Optimal
	if opt == nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_FEASIBLE_SOLUTION",
				Message: "run has no feasible solution to dispatch",
			},
		})
		return
	}

	sim := dispatch.Simulate(run.Inputs.Series, opt.Candidate, run.Inputs.Techs, opt.Window)
	trace := make([]models.DispatchRow, len(sim.Trace))
	for i, row := range sim.Trace {
		trace[i] = models.DispatchRow{
			Hour:        row.Hour,
			LoadKW:      row.LoadKW,
			PVKW:        row.PVKW,
			WindKW:      row.WindKW,
			HydroKW:     row.HydroKW,
			HydroActive: row.HydroActive,
			ChargeKW:    row.ChargeKW,
			DischargeKW: row.DischargeKW,
			SOCKWh:      row.SOCKWh,
			UnmetKW:     row.UnmetKW,
			ExcessKW:    row.ExcessKW,
		}
	}

	c.JSON(http.StatusOK, models.DispatchResponse{
		ID:    c.Param("id"),
		Hours: len(trace),
		Trace: trace,
	})
}

// GetWindows handles GET /api/v1/optimize/:id/windows
func (h *OptimizeHandler) GetWindows(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	opt := run.Outcome.Optimal
	if opt == nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_FEASIBLE_SOLUTION",
				Message: "run has no feasible solution to analyze",
			},
		})
		return
	}

	ranked := optimize.RankWindows(run.Inputs.Series, opt.Candidate, run.Inputs.Techs)
	windows := make([]models.WindowRow, len(ranked))
	for i, w := range ranked {
		windows[i] = models.WindowRow{
			Rank:         i + 1,
			StartHour:    w.Window.Start,
			EndHour:      w.Window.End,
			WindowRange:  w.Window.String(),
			UnmetPercent: w.UnmetPercent,
		}
	}

	c.JSON(http.StatusOK, models.WindowsResponse{ID: c.Param("id"), Windows: windows})
}

// Helper methods

func (h *OptimizeHandler) lookup(c *gin.Context) (*storedRun, bool) {
	id := c.Param("id")
	h.mu.RLock()
	run, ok := h.runs[id]
	h.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RUN_NOT_FOUND",
				Message: "no stored run with id " + id,
			},
		})
		return nil, false
	}
	return run, true
}

func (h *OptimizeHandler) buildInputs(req models.OptimizeRequest) (optimize.Inputs, error) {
	storage := config.StorageConfig{
		Name:                req.Storage.Name,
		DurationHours:       req.Storage.DurationHours,
		PowerCapexPerKW:     req.Storage.PowerCapexPerKW,
		EnergyCapexPerKWh:   req.Storage.EnergyCapexPerKWh,
		OMPerKWYear:         req.Storage.OMPerKWYear,
		LifetimeYears:       req.Storage.LifetimeYears,
		ChargeEfficiency:    req.Storage.ChargeEfficiency,
		DischargeEfficiency: req.Storage.DischargeEfficiency,
		MinSOC:              req.Storage.MinSOC,
		MaxSOC:              req.Storage.MaxSOC,
	}

	// storage_file names a preset under the storage directory; the request
	// fields override it.
	if req.Storage.StorageFile != "" {
		path := filepath.Join(h.storageDir, req.Storage.StorageFile+".yaml")
		loaded, err := config.LoadUnchecked(path)
		if err != nil {
			log.Printf("OptimizeHandler: failed to load storage preset %s: %v", path, err)
		} else {
			storage = config.MergeStorage(loaded.Storage, storage)
		}
	}

	in := optimize.Inputs{
		Project: model.ProjectParams{
			DiscountRate:       req.Project.DiscountRate,
			InflationRate:      req.Project.InflationRate,
			LifetimeYears:      req.Project.LifetimeYears,
			TargetUnmetPercent: req.Project.TargetUnmetPercent,
		},
		Techs: model.Technologies{
			Solar: model.SolarParams{
				CapexPerKW:    req.Solar.CapexPerKW,
				OMPerKWYear:   req.Solar.OMPerKWYear,
				LifetimeYears: req.Solar.LifetimeYears,
				BaselineKW:    req.Solar.BaselineKW,
			},
			Wind: model.WindParams{
				Enabled:       req.Wind.Enabled,
				CapexPerKW:    req.Wind.CapexPerKW,
				OMPerKWYear:   req.Wind.OMPerKWYear,
				LifetimeYears: req.Wind.LifetimeYears,
			},
			Hydro: model.HydroParams{
				Enabled:       req.Hydro.Enabled,
				CapexPerKW:    req.Hydro.CapexPerKW,
				OMPerKWYear:   req.Hydro.OMPerKWYear,
				LifetimeYears: req.Hydro.LifetimeYears,
				HoursPerDay:   req.Hydro.HoursPerDay,
			},
			Storage: model.StorageParams{
				DurationHours:       storage.DurationHours,
				PowerCapexPerKW:     storage.PowerCapexPerKW,
				EnergyCapexPerKWh:   storage.EnergyCapexPerKWh,
				OMPerKWYear:         storage.OMPerKWYear,
				LifetimeYears:       storage.LifetimeYears,
				ChargeEfficiency:    storage.ChargeEfficiency,
				DischargeEfficiency: storage.DischargeEfficiency,
				MinSOC:              storage.MinSOC,
				MaxSOC:              storage.MaxSOC,
			},
		},
		Series: model.Series{
			LoadKW:       req.Profiles.LoadKW,
			PVOutputKW:   req.Profiles.PVOutputKW,
			WindOutputKW: req.Profiles.WindOutputKW,
		},
		Space: optimize.Space{
			PV:              optimize.Range{Start: req.Search.PV.Start, End: req.Search.PV.End, Step: req.Search.PV.Step},
			Wind:            optimize.Range{Start: req.Search.Wind.Start, End: req.Search.Wind.End, Step: req.Search.Wind.Step},
			Hydro:           optimize.Range{Start: req.Search.Hydro.Start, End: req.Search.Hydro.End, Step: req.Search.Hydro.Step},
			Storage:         optimize.Range{Start: req.Search.Storage.Start, End: req.Search.Storage.End, Step: req.Search.Storage.Step},
			MaxCombinations: req.Search.MaxCombinations,
		},
		Workers: req.Options.Workers,
	}

	if len(in.Series.WindOutputKW) == 0 {
		in.Series.WindOutputKW = make([]float64, len(in.Series.LoadKW))
	}

	return in, in.Validate()
}

func (h *OptimizeHandler) buildResponse(id string, out *optimize.Outcome, includeResults bool) models.OptimizeResponse {
	feasible := 0
	for _, r := range out.Results {
		if r.Feasible {
			feasible++
		}
	}

	resp := models.OptimizeResponse{
		ID:     id,
		Status: "completed",
		Summary: models.OptimizeSummary{
			CombinationsTested: len(out.Results),
			FeasibleSolutions:  feasible,
			ElapsedSeconds:     out.Elapsed.Seconds(),
			OptimalFound:       out.Optimal != nil,
		},
	}
	if out.Optimal != nil {
		row := toResultRow(*out.Optimal)
		resp.Summary.Optimal = &row
	}
	if includeResults {
		resp.Results = make([]models.ResultRow, len(out.Results))
		for i, r := range out.Results {
			resp.Results[i] = toResultRow(r)
		}
	}
	return resp
}

func toResultRow(r optimize.Result) models.ResultRow {
	return models.ResultRow{
		Iteration:        r.Iteration,
		PVKW:             r.Candidate.PVKW,
		WindKW:           r.Candidate.WindKW,
		HydroKW:          r.Candidate.HydroKW,
		WindowStart:      r.Window.Start,
		WindowEnd:        r.Window.End,
		StoragePowerKW:   r.Candidate.StoragePowerKW,
		StorageEnergyKWh: r.StorageEnergyKWh,
		CyclesPerYear:    r.Totals.CyclesPerYear,

		UnmetPercent: r.Totals.UnmetPercent,
		Feasible:     r.Feasible,

		NPC:           r.Cost.NPC,
		Capital:       r.Cost.Capital,
		ReplacementPV: r.Cost.ReplacementPV,
		OMPV:          r.Cost.OMPV,
		SalvagePV:     r.Cost.SalvagePV,
		Annualized:    r.Cost.Annualized,
		LCOEPerKWh:    r.Cost.LCOE,
		LCOEPerMWh:    r.Cost.LCOE * 1000,
		RealRate:      r.Cost.RealRate,
		CRF:           r.Cost.CRF,

		LoadKWh:   r.Totals.LoadKWh,
		ServedKWh: r.Totals.ServedKWh,
		UnmetKWh:  r.Totals.UnmetKWh,
		ExcessKWh: r.Totals.ExcessKWh,

		PVFraction:          r.Mix.PVFraction,
		WindFraction:        r.Mix.WindFraction,
		HydroFraction:       r.Mix.HydroFraction,
		REPenetration:       r.Mix.REPenetration,
		StorageContribution: r.Mix.StorageContribution,
		ExcessFraction:      r.Mix.ExcessFraction,
	}
}

// DefaultStorageDir resolves the storage preset directory, preferring
// STORAGE_DIR and falling back to examples/storage under the working
// directory.
func DefaultStorageDir() string {
	dir := os.Getenv("STORAGE_DIR")
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = filepath.Join(wd, "examples", "storage")
		} else {
			dir = "./examples/storage"
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}
