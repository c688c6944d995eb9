package errors

import (
	"encoding/json"
	"io"
)

// Report is the machine-readable shape of a run's collected errors.
type Report struct {
	RunID   string         `json:"run_id,omitempty"`
	Success bool           `json:"success"`
	Errors  []ConvertError `json:"errors"`
}

// WriteJSON encodes a report of the collected errors to w.
func WriteJSON(w io.Writer, runID string, errs []ConvertError) error {
	if errs == nil {
		errs = []ConvertError{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Report{
		RunID:   runID,
		Success: len(errs) == 0,
		Errors:  errs,
	})
}
