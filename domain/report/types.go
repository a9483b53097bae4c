package report

// CheckStatus is the outcome of a single validation check.
type CheckStatus string

const (
	CheckPass    CheckStatus = "PASS"
	CheckWarning CheckStatus = "WARNING"
	CheckFail    CheckStatus = "FAIL"
)

// Status is the overall verdict for one submission file.
type Status string

const (
	StatusValidated             Status = "VALIDATED"
	StatusValidatedWithWarnings Status = "VALIDATED_WITH_WARNINGS"
	StatusRejected              Status = "REJECTED"
	// StatusError marks batch entries where the file could not be
	// processed at all (corrupt workbook, unknown template).
	StatusError Status = "ERROR"
)

// CheckResult holds the outcome of one validation check. Informational
// checks (quality metrics) carry no status and are excluded from the
// pass/fail/warning tallies.
type CheckResult struct {
	Status  CheckStatus `json:"status,omitempty"`
	Details any         `json:"details,omitempty"`
}

// HasStatus reports whether this check contributes to the summary tallies.
func (r CheckResult) HasStatus() bool {
	return r.Status != ""
}

// Metadata describes the validated file and the validation run.
type Metadata struct {
	ReportID            string `json:"report_id"`
	FilePath            string `json:"file_path,omitempty"`
	FileName            string `json:"file_name"`
	TemplateType        string `json:"template_type,omitempty"`
	ValidationTimestamp string `json:"validation_timestamp"`
	ValidatorVersion    string `json:"validator_version"`
}

// Summary holds the aggregate counters for one report.
type Summary struct {
	TotalErrors   int `json:"total_errors"`
	TotalWarnings int `json:"total_warnings"`
	ChecksPassed  int `json:"checks_passed"`
	ChecksFailed  int `json:"checks_failed"`
	ChecksWarning int `json:"checks_warning"`
}

// ValidationReport is the terminal artifact of one validation call.
// It is created fresh per invocation and never mutated once built.
type ValidationReport struct {
	Metadata Metadata               `json:"metadata"`
	Status   Status                 `json:"status"`
	Errors   []string               `json:"errors"`
	Warnings []string               `json:"warnings"`
	Checks   map[string]CheckResult `json:"validation_results"`
	Summary  Summary                `json:"summary"`
}
