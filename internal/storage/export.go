package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run   RunMetadata  `json:"run"`
	Steps []StepRecord `json:"steps"`
}

// ExportJSON writes a run and its steps as one indented JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	steps, err := s.LoadSteps(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Steps: steps})
}
