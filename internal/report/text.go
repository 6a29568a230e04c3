package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/0x6d61/websentry/internal/engine"
)

const (
	doubleLine = "═"
	singleLine = "─"
	lineWidth  = 50
)

// TextReporter outputs plain terminal text.
type TextReporter struct{}

// Format returns "text".
func (r *TextReporter) Format() string {
	return "text"
}

// Generate writes a formatted scan record to w.
func (r *TextReporter) Generate(ctx context.Context, rec *engine.ScanRecord, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := &strings.Builder{}

	doubleBar := strings.Repeat(doubleLine, lineWidth)
	singleBar := strings.Repeat(singleLine, lineWidth)

	fmt.Fprintln(b, doubleBar)
	fmt.Fprintln(b, "websentry - URL Security Triage Results")
	fmt.Fprintln(b, doubleBar)

	fmt.Fprintf(b, "Target:     %s\n", rec.URL)
	fmt.Fprintf(b, "Scanned at: %s\n", rec.ScannedAt)
	fmt.Fprintf(b, "Risk:       %s (score %d)\n", rec.RiskLevel, rec.RiskScore)

	if len(rec.Findings) == 0 {
		fmt.Fprintln(b, singleBar)
		fmt.Fprintln(b, "No obvious issues detected.")
	} else {
		for _, f := range rec.Findings {
			fmt.Fprintln(b, singleBar)
			fmt.Fprintf(b, "[%s] %s\n", f.Severity, f.Type)
			fmt.Fprintf(b, "  Description:    %s\n", f.Description)
			fmt.Fprintf(b, "  Recommendation: %s\n", f.Recommendation)
		}
	}

	if rec.AIAnalysis != "" {
		fmt.Fprintln(b, singleBar)
		fmt.Fprintln(b, "AI Analysis:")
		fmt.Fprintln(b, rec.AIAnalysis)
	}

	fmt.Fprintln(b, doubleBar)
	fmt.Fprintf(b, "Summary: %d finding(s), risk level %s\n", len(rec.Findings), rec.RiskLevel)
	fmt.Fprintln(b, doubleBar)

	_, err := io.WriteString(w, b.String())
	return err
}
