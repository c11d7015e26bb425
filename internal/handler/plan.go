package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/dashgen/internal/config"
	"github.com/matthewbaird/dashgen/internal/event"
	"github.com/matthewbaird/dashgen/internal/manifest"
	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/typemap"
	"github.com/matthewbaird/dashgen/internal/validate"
)

// PlanHandler implements the planning endpoints.
type PlanHandler struct {
	planner  *planner.Planner
	store    manifest.Store
	recorder event.Recorder
}

// NewPlanHandler creates a PlanHandler. Recorded runs go through recorder;
// entity plans are checked against the paths in store.
func NewPlanHandler(pl *planner.Planner, store manifest.Store, recorder event.Recorder) *PlanHandler {
	return &PlanHandler{planner: pl, store: store, recorder: recorder}
}

// planResponse is returned by both planning endpoints. Actions are summaries
// unless the request asked for ?context=true.
type planResponse struct {
	Project  string             `json:"project"`
	Total    int                `json:"total"`
	Actions  any                `json:"actions"`
	Warnings []validate.Warning `json:"warnings"`
	RunID    string             `json:"runId,omitempty"`
}

// entityRequest is the body of POST /v1/projects/{name}/entities.
type entityRequest struct {
	Project json.RawMessage `json:"project"`
	Entity  json.RawMessage `json:"entity"`
}

// HandleFieldTypes lists the supported field types.
// GET /v1/field-types
func (h *PlanHandler) HandleFieldTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"types": typemap.Describe()})
}

// HandleCreatePlan plans a whole project.
// POST /v1/plans[?record=true][&context=true]
func (h *PlanHandler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	cfg, err := config.Parse(body, config.FormatJSON)
	if err != nil {
		planErrorToHTTP(w, err)
		return
	}
	plan, err := h.planner.Plan(cfg)
	if err != nil {
		planErrorToHTTP(w, err)
		return
	}

	resp := h.response(r, plan)
	if queryBool(r, "record") {
		run := manifest.NewRun(plan, manifest.KindCreate)
		if err := h.recorder.Record(r.Context(), event.NewPlanRecorded(run, plan.Warnings)); err != nil {
			writeError(w, http.StatusInternalServerError, "RECORD_FAILED", err.Error())
			return
		}
		resp.RunID = run.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePlanEntity plans one entity added to an existing project. The plan
// must not touch any path already recorded for the project.
// POST /v1/projects/{name}/entities[?record=true][&context=true]
func (h *PlanHandler) HandlePlanEntity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req entityRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if len(req.Project) == 0 || len(req.Entity) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "project and entity are required")
		return
	}

	cfg, err := config.Parse(req.Project, config.FormatJSON)
	if err != nil {
		planErrorToHTTP(w, err)
		return
	}
	if cfg.Name != name {
		writeError(w, http.StatusBadRequest, "PROJECT_MISMATCH",
			"project name "+strconv.Quote(cfg.Name)+" does not match path "+strconv.Quote(name))
		return
	}
	entity, err := config.ParseEntity(req.Entity, config.FormatJSON)
	if err != nil {
		planErrorToHTTP(w, err)
		return
	}

	existing, err := h.store.Paths(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}
	plan, err := h.planner.PlanEntity(cfg, entity, existing)
	if err != nil {
		planErrorToHTTP(w, err)
		return
	}

	resp := h.response(r, plan)
	if queryBool(r, "record") {
		run := manifest.NewRun(plan, manifest.KindEntity)
		if err := h.recorder.Record(r.Context(), event.NewEntityPlanned(run, plan.Warnings)); err != nil {
			writeError(w, http.StatusInternalServerError, "RECORD_FAILED", err.Error())
			return
		}
		resp.RunID = run.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleListRuns returns the recorded runs of a project, newest first.
// GET /v1/projects/{name}/runs
func (h *PlanHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.Runs(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// HandleListPaths returns every path recorded for a project.
// GET /v1/projects/{name}/paths
func (h *PlanHandler) HandleListPaths(w http.ResponseWriter, r *http.Request) {
	paths, err := h.store.Paths(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paths": paths})
}

func (h *PlanHandler) response(r *http.Request, plan *planner.Plan) *planResponse {
	resp := &planResponse{
		Project:  plan.Project,
		Total:    len(plan.Actions),
		Warnings: plan.Warnings,
	}
	if queryBool(r, "context") {
		resp.Actions = plan.Actions
	} else {
		resp.Actions = plan.Summaries()
	}
	return resp
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
