package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidatorVersion is stamped into every report's metadata.
const ValidatorVersion = "1.0"

// Builder accumulates errors, warnings and check results for one file and
// derives the final report. One builder per validation call.
type Builder struct {
	meta     Metadata
	errors   []string
	warnings []string
	checks   map[string]CheckResult
}

// NewBuilder starts a report for the given file.
func NewBuilder(filePath, fileName, templateType string) *Builder {
	return &Builder{
		meta: Metadata{
			ReportID:            uuid.NewString(),
			FilePath:            filePath,
			FileName:            fileName,
			TemplateType:        templateType,
			ValidationTimestamp: time.Now().Format(time.RFC3339),
			ValidatorVersion:    ValidatorVersion,
		},
		checks: make(map[string]CheckResult),
	}
}

// AddError records a hard error.
func (b *Builder) AddError(format string, args ...any) {
	b.errors = append(b.errors, fmt.Sprintf(format, args...))
}

// AddWarning records a soft finding.
func (b *Builder) AddWarning(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// SetCheck records the result of a named check.
func (b *Builder) SetCheck(name string, result CheckResult) {
	b.checks[name] = result
}

// HasErrors reports whether any hard error has been recorded so far.
func (b *Builder) HasErrors() bool {
	return len(b.errors) > 0
}

// Build derives the overall status and summary counters. Errors take
// priority over warnings; a clean report is VALIDATED. Only checks that
// expose a status are tallied.
func (b *Builder) Build() *ValidationReport {
	status := StatusValidated
	if len(b.errors) > 0 {
		status = StatusRejected
	} else if len(b.warnings) > 0 {
		status = StatusValidatedWithWarnings
	}

	summary := Summary{
		TotalErrors:   len(b.errors),
		TotalWarnings: len(b.warnings),
	}
	for _, check := range b.checks {
		switch check.Status {
		case CheckPass:
			summary.ChecksPassed++
		case CheckFail:
			summary.ChecksFailed++
		case CheckWarning:
			summary.ChecksWarning++
		}
	}

	return &ValidationReport{
		Metadata: b.meta,
		Status:   status,
		Errors:   append([]string(nil), b.errors...),
		Warnings: append([]string(nil), b.warnings...),
		Checks:   b.checks,
		Summary:  summary,
	}
}

// ErrorReport builds the batch-mode sentinel for a file that could not be
// processed at all.
func ErrorReport(fileName string, err error) *ValidationReport {
	return &ValidationReport{
		Metadata: Metadata{
			ReportID:            uuid.NewString(),
			FileName:            fileName,
			ValidationTimestamp: time.Now().Format(time.RFC3339),
			ValidatorVersion:    ValidatorVersion,
		},
		Status:  StatusError,
		Errors:  []string{err.Error()},
		Checks:  map[string]CheckResult{},
		Summary: Summary{TotalErrors: 1},
	}
}

// WriteJSON persists the report to path, creating parent directories.
func (r *ValidationReport) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Text renders the plain-text summary offered for download alongside the
// JSON report.
func (r *ValidationReport) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BIO-RED T2.1 Validation Report\n")
	fmt.Fprintf(&sb, "File: %s\n", r.Metadata.FileName)
	if r.Metadata.TemplateType != "" {
		fmt.Fprintf(&sb, "Template: %s\n", r.Metadata.TemplateType)
	}
	fmt.Fprintf(&sb, "Validation Time: %s\n\n", r.Metadata.ValidationTimestamp)
	fmt.Fprintf(&sb, "STATUS: %s\n\n", r.Status)
	fmt.Fprintf(&sb, "SUMMARY:\n")
	fmt.Fprintf(&sb, "- Total Errors: %d\n", r.Summary.TotalErrors)
	fmt.Fprintf(&sb, "- Total Warnings: %d\n", r.Summary.TotalWarnings)
	fmt.Fprintf(&sb, "- Checks Passed: %d\n", r.Summary.ChecksPassed)
	fmt.Fprintf(&sb, "- Checks Failed: %d\n", r.Summary.ChecksFailed)
	sb.WriteString("\nERRORS:\n")
	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "- %s\n", e)
	}
	sb.WriteString("\nWARNINGS:\n")
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "- %s\n", w)
	}
	return sb.String()
}
