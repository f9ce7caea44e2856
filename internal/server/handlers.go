package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/izzettinalhalil/pushover/internal/config"
	"github.com/izzettinalhalil/pushover/internal/cycle"
	"github.com/izzettinalhalil/pushover/internal/export"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

// CycleRequest mirrors cycle.Request. Omitted fields take the generator
// defaults.
type CycleRequest struct {
	Peak        float64  `json:"peak"`
	StepSize    *float64 `json:"step_size"`
	CycleType   string   `json:"cycle_type"`
	ScaleFactor *float64 `json:"scale_factor"`
	Lenient     bool     `json:"lenient"`
}

func (c CycleRequest) request() (cycle.Request, error) {
	req := cycle.DefaultRequest(c.Peak)
	if c.StepSize != nil {
		req.StepSize = *c.StepSize
	}
	if c.ScaleFactor != nil {
		req.ScaleFactor = *c.ScaleFactor
	}
	switch {
	case c.CycleType == "":
	case c.Lenient:
		req.Type = cycle.ParseTypeLenient(c.CycleType)
	default:
		t, err := cycle.ParseType(c.CycleType)
		if err != nil {
			return req, err
		}
		req.Type = t
	}
	return req, nil
}

type CycleResponse struct {
	Peak          float64    `json:"peak"`
	EffectivePeak float64    `json:"effective_peak"`
	StepSize      float64    `json:"step_size"`
	CycleType     cycle.Type `json:"cycle_type"`
	ScaleFactor   float64    `json:"scale_factor"`
	PeakSteps     int        `json:"peak_steps"`
	Length        int        `json:"length"`
	Sequence      []float64  `json:"sequence"`
}

type ProtocolResponse struct {
	Name        string             `json:"name"`
	CycleType   cycle.Type         `json:"cycle_type"`
	StepSize    float64            `json:"step_size"`
	ScaleFactor float64            `json:"scale_factor"`
	Cycles      int                `json:"cycles"`
	Peaks       []float64          `json:"peaks"`
	Steps       int                `json:"steps"`
	Segments    []protocol.Segment `json:"segments"`
	Targets     []float64          `json:"targets"`
}

type PresetResponse struct {
	Name        string    `json:"name"`
	CycleType   string    `json:"cycle_type"`
	StepSize    float64   `json:"step_size"`
	ScaleFactor float64   `json:"scale_factor"`
	Cycles      int       `json:"cycles"`
	Peaks       []float64 `json:"peaks"`
	Unit        string    `json:"unit"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	var in CycleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	req, err := in.request()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := cycle.PeakSteps(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if length := 2 + n*req.Type.Phases(); length > s.maxSteps {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("cycle of %d steps exceeds the limit of %d", length, s.maxSteps))
		return
	}

	seq, err := cycle.Generate(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CycleResponse{
		Peak:          req.Peak,
		EffectivePeak: req.EffectivePeak(),
		StepSize:      req.StepSize,
		CycleType:     req.Type,
		ScaleFactor:   req.ScaleFactor,
		PeakSteps:     n,
		Length:        len(seq),
		Sequence:      seq,
	})
}

// readConfig decodes a JSON or YAML protocol configuration over the defaults
// and builds its schedule if it fits within the step limit.
func (s *Server) readConfig(w http.ResponseWriter, r *http.Request) (*config.Config, *protocol.Schedule, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return nil, nil, false
	}
	cfg, err := config.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return nil, nil, false
	}
	p, err := cfg.Protocol()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	total, err := p.TotalSteps()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	if total > s.maxSteps {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("schedule of %d steps exceeds the limit of %d", total, s.maxSteps))
		return nil, nil, false
	}
	sched, err := p.Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return cfg, sched, true
}

func (s *Server) handleProtocol(w http.ResponseWriter, r *http.Request) {
	_, sched, ok := s.readConfig(w, r)
	if !ok {
		return
	}
	p := sched.Protocol
	writeJSON(w, http.StatusOK, ProtocolResponse{
		Name:        p.Name,
		CycleType:   p.Type,
		StepSize:    p.StepSize,
		ScaleFactor: p.ScaleFactor,
		Cycles:      p.Cycles,
		Peaks:       p.Peaks,
		Steps:       sched.Len(),
		Segments:    sched.Segments(),
		Targets:     sched.Targets(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	cfg, sched, ok := s.readConfig(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	info := export.ReportInfo{Unit: cfg.Control.Unit}
	if err := export.WriteReport(&buf, export.NewTable(sched, nil), info); err != nil {
		s.log.Error("report failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+cfg.Name+`.pdf"`)
	w.Write(buf.Bytes())
}

func presetResponse(cfg *config.Config) PresetResponse {
	return PresetResponse{
		Name:        cfg.Name,
		CycleType:   cfg.CycleType,
		StepSize:    cfg.EffectiveStepSize(),
		ScaleFactor: cfg.EffectiveScaleFactor(),
		Cycles:      cfg.Cycles,
		Peaks:       cfg.Peaks,
		Unit:        cfg.Control.Unit,
	}
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	names := config.ListPresets()
	out := make([]PresetResponse, 0, len(names))
	for _, name := range names {
		out = append(out, presetResponse(config.GetPreset(name)))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	cfg := config.GetPreset(name)
	if cfg == nil {
		writeError(w, http.StatusNotFound, "unknown preset: "+name)
		return
	}
	writeJSON(w, http.StatusOK, presetResponse(cfg))
}
