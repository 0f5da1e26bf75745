// Package reporter renders reconciliation run results for humans and
// machines, and serializes the three result tables.
//
// The summary report answers the operator's first question — how many
// matched, how many did not, and why — in three formats:
//   - Console: human-readable text for terminal display
//   - JSON: structured output for downstream tooling
//   - CSV: flat output for spreadsheet follow-up
//
// The workbook writer (writer.go) serializes the matched, unmatched and
// upload-template tables to .xlsx or .csv files.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"vietnam-address-reconciliation/internal/reconciler"
)

// OutputFormat represents the supported summary report formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation.
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// IncludeUnmatchedDetail lists every unmatched record with its reason.
	IncludeUnmatchedDetail bool `json:"include_unmatched_detail"`
}

// DefaultReportConfig returns a default report configuration.
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                 FormatConsole,
		IncludeUnmatchedDetail: true,
	}
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// ReportGenerator generates run reports in the configured format.
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator.
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// GenerateReport writes a report for the run to the provided writer.
func (rg *ReportGenerator) GenerateReport(run *reconciler.RunResult, writer io.Writer) error {
	if run == nil {
		return fmt.Errorf("run result cannot be nil")
	}

	switch rg.config.Format {
	case FormatJSON:
		return rg.generateJSON(run, writer)
	case FormatCSV:
		return rg.generateCSV(run, writer)
	default:
		return rg.generateConsole(run, writer)
	}
}

func (rg *ReportGenerator) generateConsole(run *reconciler.RunResult, writer io.Writer) error {
	var b strings.Builder

	b.WriteString("Address Reconciliation Report\n")
	b.WriteString("=============================\n")
	fmt.Fprintf(&b, "Run ID:            %s\n", run.RunID)
	fmt.Fprintf(&b, "Match strategy:    %s\n", run.Strategy)
	fmt.Fprintf(&b, "Duration:          %s\n", run.Duration)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Requests:          %d\n", run.Summary.TotalRequests)
	fmt.Fprintf(&b, "Matched:           %d\n", run.Summary.Matched)
	fmt.Fprintf(&b, "Unmatched:         %d\n", run.Summary.Unmatched)
	fmt.Fprintf(&b, "Upload rows:       %d\n", run.Summary.UploadRows)
	fmt.Fprintf(&b, "Reference records: %d (%d accounts)\n",
		run.Summary.ReferenceRecords, run.Summary.Accounts)

	if len(run.Summary.ReasonCounts) > 0 {
		b.WriteString("\nUnmatched by reason:\n")
		for _, reason := range sortedReasons(run.Summary.ReasonCounts) {
			fmt.Fprintf(&b, "  %-50s %d\n", reason, run.Summary.ReasonCounts[reason])
		}
	}

	if rg.config.IncludeUnmatchedDetail && len(run.Results.Unmatched) > 0 {
		b.WriteString("\nUnmatched records:\n")
		for _, record := range run.Results.Unmatched {
			fmt.Fprintf(&b, "  %-20s %s\n", record.Request.AccountNumber, record.Reason)
		}
	}

	_, err := io.WriteString(writer, b.String())
	return err
}

// jsonReport is the machine-readable report shape.
type jsonReport struct {
	RunID     string               `json:"run_id"`
	Strategy  string               `json:"strategy"`
	StartTime string               `json:"start_time"`
	Duration  string               `json:"duration"`
	Summary   reconciler.Summary   `json:"summary"`
	Unmatched []jsonUnmatchedEntry `json:"unmatched,omitempty"`
}

type jsonUnmatchedEntry struct {
	AccountNumber string `json:"account_number"`
	Reason        string `json:"reason"`
}

func (rg *ReportGenerator) generateJSON(run *reconciler.RunResult, writer io.Writer) error {
	report := jsonReport{
		RunID:     run.RunID,
		Strategy:  string(run.Strategy),
		StartTime: run.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		Duration:  run.Duration.String(),
		Summary:   run.Summary,
	}

	if rg.config.IncludeUnmatchedDetail {
		for _, record := range run.Results.Unmatched {
			report.Unmatched = append(report.Unmatched, jsonUnmatchedEntry{
				AccountNumber: record.Request.AccountNumber,
				Reason:        record.Reason,
			})
		}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (rg *ReportGenerator) generateCSV(run *reconciler.RunResult, writer io.Writer) error {
	w := csv.NewWriter(writer)

	summary := [][]string{
		{"metric", "value"},
		{"run_id", run.RunID},
		{"strategy", string(run.Strategy)},
		{"duration", run.Duration.String()},
		{"total_requests", fmt.Sprintf("%d", run.Summary.TotalRequests)},
		{"matched", fmt.Sprintf("%d", run.Summary.Matched)},
		{"unmatched", fmt.Sprintf("%d", run.Summary.Unmatched)},
		{"upload_rows", fmt.Sprintf("%d", run.Summary.UploadRows)},
	}
	if err := w.WriteAll(summary); err != nil {
		return err
	}

	if rg.config.IncludeUnmatchedDetail && len(run.Results.Unmatched) > 0 {
		if err := w.Write([]string{"account_number", "reason"}); err != nil {
			return err
		}
		for _, record := range run.Results.Unmatched {
			if err := w.Write([]string{record.Request.AccountNumber, record.Reason}); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func sortedReasons(counts map[string]int) []string {
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return reasons
}
