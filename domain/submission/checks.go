package submission

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/fbal23/BIO-RED-Validation-Portal/domain/report"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/schema"
)

// Check names as they appear in the report's validation_results mapping.
const (
	CheckNameSchemaCompliance = "schema_compliance"
	CheckNameDataTypes        = "data_types"
	CheckNameCompleteness     = "completeness"
	CheckNameDropdowns        = "dropdown_validation"
	CheckNameQualityMetrics   = "quality_metrics"
	CheckNameEnhancement      = "enhancement_targets"
)

// CompletenessTarget is the required-field fill ratio a submission should
// reach before it validates without warnings.
const CompletenessTarget = 0.95

// lowCompletenessThreshold flags individual required fields for reporting.
const lowCompletenessThreshold = 0.8

// Field-name semantics shared by all templates.
var (
	numericFields = []string{
		"Employees", "Founded_Year", "Annual_Revenue",
		"EU_Projects_Count", "Total_EU_Funding", "Number_of_Participants",
	}
	urlFields   = []string{"Website"}
	emailFields = []string{"Email", "Contact_Email"}
)

// Finding is the outcome of one check: an optional structured result plus
// the error and warning messages it contributes to the overall report. A
// nil Result means the check recorded nothing in the check mapping (the
// completeness check when no required field is present at all).
type Finding struct {
	Result   *report.CheckResult
	Errors   []string
	Warnings []string
}

// NamedFinding pairs a finding with its report key.
type NamedFinding struct {
	Name    string
	Finding Finding
}

// RunChecks runs every applicable check against the table. Checks are
// independent and all run unconditionally, so the report reflects every
// check rather than just the first failure. The enhancement-depth check is
// gated on the schema's capability flag, not its identifier.
func RunChecks(t Table, s schema.TemplateSchema) []NamedFinding {
	findings := []NamedFinding{
		{CheckNameSchemaCompliance, SchemaCompliance(t, s)},
		{CheckNameDataTypes, DataTypes(t)},
		{CheckNameCompleteness, Completeness(t, s)},
		{CheckNameDropdowns, DropdownValues(t, s)},
		{CheckNameQualityMetrics, QualityMetrics(t)},
	}
	if s.HasEnhancementTargets() {
		findings = append(findings, NamedFinding{CheckNameEnhancement, EnhancementDepth(t, s)})
	}
	return findings
}

// SchemaComplianceDetails lists required fields by presence.
type SchemaComplianceDetails struct {
	RequiredFields []string `json:"required_fields"`
	MissingFields  []string `json:"missing_fields"`
	PresentFields  []string `json:"present_fields"`
}

// SchemaCompliance verifies every required field appears among the table's
// columns. Missing fields fail the check with one error in schema-declared
// order.
func SchemaCompliance(t Table, s schema.TemplateSchema) Finding {
	details := SchemaComplianceDetails{
		RequiredFields: s.RequiredFields,
		MissingFields:  []string{},
		PresentFields:  []string{},
	}
	for _, field := range s.RequiredFields {
		if t.HasColumn(field) {
			details.PresentFields = append(details.PresentFields, field)
		} else {
			details.MissingFields = append(details.MissingFields, field)
		}
	}

	finding := Finding{Result: &report.CheckResult{Status: report.CheckPass, Details: details}}
	if len(details.MissingFields) > 0 {
		finding.Result.Status = report.CheckFail
		finding.Errors = append(finding.Errors,
			fmt.Sprintf("Missing required columns: %s", strings.Join(details.MissingFields, ", ")))
	}
	return finding
}

// DataTypeDetails lists per-field type violations.
type DataTypeDetails struct {
	Errors []string `json:"errors"`
}

// DataTypes validates cell values for fields with known numeric, URL or
// email semantics. Numeric violations are hard errors and fail the check;
// URL and email formatting issues only warn and never flip the status.
func DataTypes(t Table) Finding {
	finding := Finding{}
	details := DataTypeDetails{Errors: []string{}}

	for _, field := range numericFields {
		if !t.HasColumn(field) {
			continue
		}
		bad := 0
		for _, v := range t.Column(field) {
			if v == "" {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				bad++
			}
		}
		if bad > 0 {
			msg := fmt.Sprintf("%s: %d non-numeric values", field, bad)
			details.Errors = append(details.Errors, msg)
			finding.Errors = append(finding.Errors, msg)
		}
	}

	for _, field := range urlFields {
		if !t.HasColumn(field) {
			continue
		}
		bad := 0
		for _, v := range t.Column(field) {
			if v == "" {
				continue
			}
			lower := strings.ToLower(v)
			if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
				bad++
			}
		}
		if bad > 0 {
			finding.Warnings = append(finding.Warnings,
				fmt.Sprintf("%s: %d entries missing http:// or https://", field, bad))
		}
	}

	for _, field := range emailFields {
		if !t.HasColumn(field) {
			continue
		}
		bad := 0
		for _, v := range t.Column(field) {
			if v != "" && !strings.Contains(v, "@") {
				bad++
			}
		}
		if bad > 0 {
			finding.Warnings = append(finding.Warnings,
				fmt.Sprintf("%s: %d entries missing '@' symbol", field, bad))
		}
	}

	status := report.CheckPass
	if len(details.Errors) > 0 {
		status = report.CheckFail
	}
	finding.Result = &report.CheckResult{Status: status, Details: details}
	return finding
}

// FieldCompleteness counts filled cells for one required field.
type FieldCompleteness struct {
	Filled       int     `json:"filled"`
	Total        int     `json:"total"`
	Completeness float64 `json:"completeness"`
}

// CompletenessDetails aggregates fill ratios across required fields.
type CompletenessDetails struct {
	Overall         float64                      `json:"overall"`
	Target          float64                      `json:"target"`
	FieldStats      map[string]FieldCompleteness `json:"field_stats"`
	LowCompleteness map[string]FieldCompleteness `json:"low_completeness_fields"`
}

// Completeness computes a row-weighted fill ratio over the required fields
// present in the table. Below-target overall completeness warns rather than
// fails; fields under the per-field threshold are recorded for reporting
// either way. A table containing none of the required fields is a hard
// error with no check result.
func Completeness(t Table, s schema.TemplateSchema) Finding {
	present := make([]string, 0, len(s.RequiredFields))
	for _, field := range s.RequiredFields {
		if t.HasColumn(field) {
			present = append(present, field)
		}
	}
	if len(present) == 0 {
		return Finding{Errors: []string{"No required fields found in submission"}}
	}

	details := CompletenessDetails{
		Target:          CompletenessTarget,
		FieldStats:      make(map[string]FieldCompleteness, len(present)),
		LowCompleteness: map[string]FieldCompleteness{},
	}

	totalFilled, totalCells := 0, 0
	for _, field := range present {
		filled := 0
		for _, v := range t.Column(field) {
			if v != "" {
				filled++
			}
		}
		total := len(t.Rows)
		ratio := 0.0
		if total > 0 {
			ratio = float64(filled) / float64(total)
		}
		fc := FieldCompleteness{Filled: filled, Total: total, Completeness: round3(ratio)}
		details.FieldStats[field] = fc
		if fc.Completeness < lowCompletenessThreshold {
			details.LowCompleteness[field] = fc
		}
		totalFilled += filled
		totalCells += total
	}

	overall := 0.0
	if totalCells > 0 {
		overall = float64(totalFilled) / float64(totalCells)
	}
	details.Overall = round3(overall)

	finding := Finding{}
	status := report.CheckPass
	if overall < CompletenessTarget {
		status = report.CheckWarning
		finding.Warnings = append(finding.Warnings,
			fmt.Sprintf("Completeness %.1f%% below target %.0f%%", overall*100, CompletenessTarget*100))
	}
	finding.Result = &report.CheckResult{Status: status, Details: details}
	return finding
}

// DropdownDetails lists invalid values per dropdown field.
type DropdownDetails struct {
	InvalidValues map[string][]string `json:"invalid_values"`
}

// DropdownValues verifies observed values for each schema-declared dropdown
// field against its allowed set. Any invalid value fails the check, one
// error per field. Invalid values are reported in first-seen column order
// so messages stay deterministic across runs.
func DropdownValues(t Table, s schema.TemplateSchema) Finding {
	finding := Finding{}
	details := DropdownDetails{InvalidValues: map[string][]string{}}

	for _, field := range sortedDropdownFields(s) {
		allowed, _ := s.AllowedDropdownValues(field)
		if !t.HasColumn(field) {
			continue
		}
		allowedSet := make(map[string]bool, len(allowed))
		for _, v := range allowed {
			allowedSet[v] = true
		}

		var invalid []string
		seen := map[string]bool{}
		for _, v := range t.Column(field) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			if !allowedSet[v] {
				invalid = append(invalid, v)
			}
		}
		if len(invalid) > 0 {
			details.InvalidValues[field] = invalid
			finding.Errors = append(finding.Errors,
				fmt.Sprintf("%s: Invalid values found: %s", field, strings.Join(invalid, ", ")))
		}
	}

	status := report.CheckPass
	if len(details.InvalidValues) > 0 {
		status = report.CheckFail
	}
	finding.Result = &report.CheckResult{Status: status, Details: details}
	return finding
}

// QualityMetricsDetails carries informational metrics only; the check
// exposes no status and never gates the overall verdict.
type QualityMetricsDetails struct {
	TotalRows    int  `json:"total_rows"`
	NonEmptyRows int  `json:"non_empty_rows"`
	Duplicates   *int `json:"duplicates,omitempty"`
	FieldsUsed   int  `json:"fields_used"`
	FieldsTotal  int  `json:"fields_total"`
}

// QualityMetrics reports row counts, duplicate identifiers in the first
// *_ID column, and column usage. Duplicates contribute a warning; nothing
// here is ever an error.
func QualityMetrics(t Table) Finding {
	finding := Finding{}
	details := QualityMetricsDetails{TotalRows: len(t.Rows)}

	for _, row := range t.Rows {
		for _, v := range row {
			if v != "" {
				details.NonEmptyRows++
				break
			}
		}
	}

	if idField := firstIDColumn(t); idField != "" {
		counts := map[string]int{}
		duplicates := 0
		for _, v := range t.Column(idField) {
			if v == "" {
				continue
			}
			counts[v]++
			if counts[v] > 1 {
				duplicates++
			}
		}
		details.Duplicates = &duplicates
		if duplicates > 0 {
			finding.Warnings = append(finding.Warnings,
				fmt.Sprintf("Found %d duplicate %s values", duplicates, idField))
		}
	}

	for _, col := range t.Columns {
		for _, v := range t.Column(col) {
			if v != "" {
				details.FieldsUsed++
				break
			}
		}
	}
	details.FieldsTotal = len(t.Columns)

	finding.Result = &report.CheckResult{Details: details}
	return finding
}

func firstIDColumn(t Table) string {
	for _, col := range t.Columns {
		if strings.HasSuffix(col, "_ID") {
			return col
		}
	}
	return ""
}

func sortedDropdownFields(s schema.TemplateSchema) []string {
	fields := make([]string, 0, len(s.Dropdowns))
	for field := range s.Dropdowns {
		fields = append(fields, field)
	}
	// Declaration order is lost in the YAML map; sort for stable messages.
	sort.Strings(fields)
	return fields
}

func round3(v float64) float64 {
	rounded, err := stats.Round(v, 3)
	if err != nil {
		return v
	}
	return rounded
}
