package storage

import (
	"encoding/json"
	"io"
)

// ExportJSON writes a run with all its samples as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID uint) error {
	run, err := s.LoadRun(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
