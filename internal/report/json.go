package report

import (
	"context"
	"encoding/json"
	"io"

	"github.com/0x6d61/websentry/internal/engine"
)

// JSONReporter outputs structured JSON.
type JSONReporter struct {
	// Compact outputs single-line JSON when true (no indentation).
	Compact bool
}

// Format returns "json".
func (r *JSONReporter) Format() string {
	return "json"
}

// jsonOutput is the top-level JSON structure.
type jsonOutput struct {
	SchemaVersion string             `json:"schema_version"`
	Tool          string             `json:"tool"`
	Record        *engine.ScanRecord `json:"record"`
}

// Generate writes the scan record as JSON to w.
func (r *JSONReporter) Generate(ctx context.Context, rec *engine.ScanRecord, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if !r.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(jsonOutput{
		SchemaVersion: "1.0",
		Tool:          "websentry",
		Record:        rec,
	})
}
