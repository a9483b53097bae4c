package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fbal23/BIO-RED-Validation-Portal/adapters/excel"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/report"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/schema"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/submission"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal"
	apperrors "github.com/fbal23/BIO-RED-Validation-Portal/internal/errors"
)

// reportSuffix names persisted per-file reports in batch mode.
const reportSuffix = "_validation_report.json"

// ValidatorService runs the validation pipeline for submission files:
// identify the template, extract the table, run the rule checks, build the
// report. Stateless per call; each invocation gets fresh accumulators.
type ValidatorService struct {
	registry *schema.Registry
	logger   *internal.Logger
}

// NewValidatorService creates a validator service.
func NewValidatorService(registry *schema.Registry, logger *internal.Logger) *ValidatorService {
	return &ValidatorService{registry: registry, logger: logger}
}

// ValidateFile validates a single submission file and optionally persists
// the JSON report to outputPath. File-level problems (unreadable workbook,
// missing sheet) come back inside a well-formed REJECTED report; only an
// unidentifiable template is returned as an error.
func (s *ValidatorService) ValidateFile(path, outputPath string) (*report.ValidationReport, error) {
	rep, err := s.run(path, false)
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		if err := rep.WriteJSON(outputPath); err != nil {
			return rep, err
		}
		s.logger.Info("Validation report saved to %s", outputPath)
	}
	return rep, nil
}

// ValidateBatch validates every .xlsx file directly inside dir, in name
// order. A per-file failure (corrupt file, unknown template) becomes an
// ERROR-status entry and never aborts the rest of the batch. When outDir is
// set, each report is persisted as <stem>_validation_report.json.
func (s *ValidatorService) ValidateBatch(dir, outDir string) ([]*report.ValidationReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read submission directory %s", dir)
	}

	var reports []*report.ValidationReport
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		rep, err := s.run(path, true)
		if err != nil {
			s.logger.Error("Failed to validate %s: %v", entry.Name(), err)
			rep = report.ErrorReport(entry.Name(), err)
		}

		if outDir != "" {
			stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			outPath := filepath.Join(outDir, stem+reportSuffix)
			if werr := rep.WriteJSON(outPath); werr != nil {
				s.logger.Error("Failed to write report for %s: %v", entry.Name(), werr)
			}
		}

		s.logger.Info("%s: %s (%d errors, %d warnings)",
			entry.Name(), rep.Status, rep.Summary.TotalErrors, rep.Summary.TotalWarnings)
		reports = append(reports, rep)
	}

	s.logger.Info("Validated %d files in %s", len(reports), dir)
	return reports, nil
}

// run is the single-file pipeline. In strict mode file-level failures are
// returned as errors so batch mode can convert them into ERROR entries;
// otherwise they are folded into the report as its one fatal message.
func (s *ValidatorService) run(path string, strict bool) (*report.ValidationReport, error) {
	fileName := filepath.Base(path)
	s.logger.Info("Validating %s...", fileName)

	sch, err := s.registry.Identify(fileName)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Identified template %s for %s", sch.Identifier, fileName)

	b := report.NewBuilder(path, fileName, sch.Identifier)

	wb, err := excel.OpenWorkbook(path)
	if err != nil {
		if strict {
			return nil, err
		}
		b.AddError("Failed to load file: %v", err)
		return b.Build(), nil
	}
	defer wb.Close()

	grid, err := wb.Grid(sch.SheetName)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeSheetNotFound {
			b.AddError("Expected worksheet '%s' not found", sch.SheetName)
		} else {
			b.AddError("Failed to parse worksheet: %v", err)
		}
		return b.Build(), nil
	}

	table := submission.ExtractTable(grid)
	s.logger.Debug("Extracted %d columns, %d data rows from '%s'",
		len(table.Columns), len(table.Rows), sch.SheetName)

	for _, nf := range submission.RunChecks(table, sch) {
		for _, msg := range nf.Finding.Errors {
			b.AddError("%s", msg)
		}
		for _, msg := range nf.Finding.Warnings {
			b.AddWarning("%s", msg)
		}
		if nf.Finding.Result != nil {
			b.SetCheck(nf.Name, *nf.Finding.Result)
		}
	}

	return b.Build(), nil
}
