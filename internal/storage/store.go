// Package storage keeps pushover runs on disk, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
)

// ErrInvalidRunID is returned for IDs that are not a single directory name.
var ErrInvalidRunID = errors.New("storage: invalid run id")

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// runName reduces a protocol name to a safe directory name prefix.
func runName(name string) string {
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "run"
	}
	return name
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Protocol    string             `json:"protocol"`
	Timestamp   time.Time          `json:"timestamp"`
	CycleType   string             `json:"cycle_type"`
	StepSize    float64            `json:"step_size"`
	ScaleFactor float64            `json:"scale_factor"`
	Cycles      int                `json:"cycles"`
	Peaks       []float64          `json:"peaks"`
	Unit        string             `json:"unit,omitempty"`
	Status      string             `json:"status"`
	StepsTaken  int                `json:"steps_taken"`
	Final       float64            `json:"final"`
	Error       string             `json:"error,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// StepRecord is one row of steps.csv.
type StepRecord struct {
	protocol.Step
	Displacement float64 `json:"displacement"`
	Applied      bool    `json:"applied"`
}

// NewMetadata describes a run of schedule s with result r.
func NewMetadata(s *protocol.Schedule, r *driver.Result) RunMetadata {
	p := s.Protocol
	meta := RunMetadata{
		Protocol:    p.Name,
		Timestamp:   time.Now(),
		CycleType:   p.Type.String(),
		StepSize:    p.StepSize,
		ScaleFactor: p.ScaleFactor,
		Cycles:      p.Cycles,
		Peaks:       p.Peaks,
		Unit:        p.Unit,
		Status:      r.Status.String(),
		StepsTaken:  r.StepsTaken,
		Final:       r.Final,
		Metrics:     r.Metrics,
	}
	if r.Err != nil {
		meta.Error = r.Err.Error()
	}
	return meta
}

// Save writes metadata.json and steps.csv. Steps beyond the last applied one
// are written with applied=false and an empty displacement.
func (s *Store) Save(sched *protocol.Schedule, result *driver.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", runName(sched.Protocol.Name), time.Now().UnixNano())
	dir, err := s.runDir(runID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := NewMetadata(sched, result)
	meta.ID = runID

	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeSteps(filepath.Join(dir, stepsFile), sched, result); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSteps(path string, sched *protocol.Schedule, result *driver.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"index", "peak_index", "peak", "cycle", "target", "increment", "applied", "displacement"}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, st := range sched.Steps {
		row := []string{
			strconv.Itoa(st.Index),
			strconv.Itoa(st.PeakIndex),
			formatFloat(st.Peak),
			strconv.Itoa(st.Cycle),
			formatFloat(st.Target),
			formatFloat(st.Increment),
		}
		if i < len(result.Displacements) {
			row = append(row, "true", formatFloat(result.Displacements[i]))
		} else {
			row = append(row, "false", "")
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatFloat writes the shortest representation that parses back exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSteps(runID string) ([]StepRecord, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, stepsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []StepRecord{}, nil
	}

	steps := make([]StepRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 8 {
			return nil, fmt.Errorf("%s line %d: expected 8 fields, got %d", stepsFile, i+2, len(record))
		}
		rec, err := parseStep(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", stepsFile, i+2, err)
		}
		steps = append(steps, rec)
	}

	return steps, nil
}

func parseStep(record []string) (StepRecord, error) {
	var rec StepRecord
	var err error

	if rec.Index, err = strconv.Atoi(record[0]); err != nil {
		return rec, err
	}
	if rec.PeakIndex, err = strconv.Atoi(record[1]); err != nil {
		return rec, err
	}
	if rec.Peak, err = strconv.ParseFloat(record[2], 64); err != nil {
		return rec, err
	}
	if rec.Cycle, err = strconv.Atoi(record[3]); err != nil {
		return rec, err
	}
	if rec.Target, err = strconv.ParseFloat(record[4], 64); err != nil {
		return rec, err
	}
	if rec.Increment, err = strconv.ParseFloat(record[5], 64); err != nil {
		return rec, err
	}
	if rec.Applied, err = strconv.ParseBool(record[6]); err != nil {
		return rec, err
	}
	if rec.Applied {
		if rec.Displacement, err = strconv.ParseFloat(record[7], 64); err != nil {
			return rec, err
		}
	}
	return rec, nil
}
