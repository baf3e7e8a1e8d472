package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"cogentcore.org/core/math32"
	"github.com/go-chi/chi/v5"

	"stagehand/internal/director"
	"stagehand/internal/stage"
)

// Handler exposes the stage operations over HTTP using go-chi.
type Handler struct {
	engine *stage.Engine
	log    *slog.Logger
}

// NewHandler returns a Handler driving the given engine.
func NewHandler(engine *stage.Engine, log *slog.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

type shotView struct {
	ID       string     `json:"id"`
	Slug     string     `json:"slug"`
	Duration float64    `json:"duration"`
	FOV      float32    `json:"fov"`
	PosStart [3]float32 `json:"posStart"`
	PosEnd   [3]float32 `json:"posEnd"`
	Target   [3]float32 `json:"target"`
}

type moduleView struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name"`
	Category     string                     `json:"category"`
	Shots        []shotView                 `json:"shots,omitempty"`
	Deliverables []director.DeliverableSpec `json:"deliverables,omitempty"`
}

func newModuleView(desc stage.Descriptor) moduleView {
	v := moduleView{
		ID:           desc.ID,
		Name:         desc.Name,
		Category:     string(desc.Category),
		Deliverables: desc.Deliverables,
	}
	for _, s := range desc.Shots {
		v.Shots = append(v.Shots, shotView{
			ID:       s.ID,
			Slug:     s.Slug,
			Duration: s.Duration,
			FOV:      s.FOV,
			PosStart: vec3(s.PosStart),
			PosEnd:   vec3(s.PosEnd),
			Target:   vec3(s.Target),
		})
	}
	return v
}

func vec3(v math32.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ListModules handles GET /modules.
func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	mods := h.engine.Registry.ListAll()
	views := make([]moduleView, 0, len(mods))
	for _, m := range mods {
		views = append(views, newModuleView(m.Descriptor()))
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"modules": views})
}

// ActivateModule handles POST /modules/{module_id}/activate.
func (h *Handler) ActivateModule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	moduleID := chi.URLParam(r, "module_id")
	if moduleID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.engine.ActivateModule(moduleID); err != nil {
		switch err {
		case stage.ErrModuleNotFound:
			w.WriteHeader(http.StatusNotFound)
			return
		case stage.ErrLoopHalted:
			h.log.Warn("activation refused, loop halted", slog.String("module_id", moduleID))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		default:
			h.log.Error("module activation failed",
				slog.String("module_id", moduleID),
				slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "active", "module": moduleID})
}

// StartBatch handles POST /batch/start.
func (h *Handler) StartBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	runID, err := h.engine.StartBatch()
	if err != nil {
		switch err {
		case stage.ErrNoActiveModule, stage.ErrNotProduction, stage.ErrBatchActive:
			h.log.Info("batch refused", slog.String("reason", err.Error()))
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		case stage.ErrLoopHalted:
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		default:
			h.log.Error("batch start failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing", "runId": runID})
}

// Status handles GET /status. It always answers 200; after a loop fault the
// snapshot carries the halted flag and reason instead of live state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("response write failed", slog.String("error", err.Error()))
	}
}
