package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbal23/BIO-RED-Validation-Portal/domain/report"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/schema"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/submission"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal"
	apperrors "github.com/fbal23/BIO-RED-Validation-Portal/internal/errors"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal/testkit"
)

func newTestService(t *testing.T) (*ValidatorService, *testkit.Kit) {
	t.Helper()
	return NewValidatorService(schema.MustLoad(), internal.NewLogger(internal.LogLevelError)),
		testkit.NewKit(t.TempDir())
}

func TestValidateFile_FullyValidSubmission(t *testing.T) {
	svc, kit := newTestService(t)
	path, err := kit.WriteWorkbook("2_Stakeholder_Mapping_PT16.xlsx", "Stakeholder Mapping", testkit.StakeholderRows(5))
	require.NoError(t, err)

	rep, err := svc.ValidateFile(path, "")

	require.NoError(t, err)
	assert.Equal(t, report.StatusValidated, rep.Status)
	assert.Empty(t, rep.Errors)
	assert.Empty(t, rep.Warnings)
	assert.Equal(t, "2_Stakeholder_Mapping", rep.Metadata.TemplateType)
	assert.Equal(t, report.CheckPass, rep.Checks[submission.CheckNameSchemaCompliance].Status)
	assert.Equal(t, report.CheckPass, rep.Checks[submission.CheckNameCompleteness].Status)
}

func TestValidateFile_MissingInfluenceColumnIsRejected(t *testing.T) {
	svc, kit := newTestService(t)
	rows := [][]any{
		{"Stakeholder Mapping Template"},
		{"Stakeholder_ID", "Name", "Organization", "Role", "Interest"},
		{"STK-001", "Jane", "Org", "Researcher", "High"},
	}
	path, err := kit.WriteWorkbook("2_Stakeholder_Mapping_EL54.xlsx", "Stakeholder Mapping", rows)
	require.NoError(t, err)

	rep, err := svc.ValidateFile(path, "")

	require.NoError(t, err)
	assert.Equal(t, report.StatusRejected, rep.Status)
	assert.Contains(t, rep.Errors, "Missing required columns: Influence")
	assert.Equal(t, report.CheckFail, rep.Checks[submission.CheckNameSchemaCompliance].Status)
}

func TestValidateFile_OrganizationRegistryEnhancementWarnings(t *testing.T) {
	svc, kit := newTestService(t)
	path, err := kit.WriteWorkbook("1_Organization_Registry_PT16.xlsx", "Your Input", testkit.OrganizationRows(3, 2))
	require.NoError(t, err)

	rep, err := svc.ValidateFile(path, "")

	require.NoError(t, err)
	// Enhancement shortfalls are target-tracking warnings, never rejection.
	assert.Equal(t, report.StatusValidatedWithWarnings, rep.Status)
	assert.Contains(t, rep.Warnings, "Enhanced organizations (3) below minimum (30)")
	assert.Contains(t, rep.Warnings, "New organizations (2) below minimum (10)")
	assert.Equal(t, report.CheckWarning, rep.Checks[submission.CheckNameEnhancement].Status)
	assert.Empty(t, rep.Errors)
}

func TestValidateFile_MissingSheetIsRejectedNotFatal(t *testing.T) {
	svc, kit := newTestService(t)
	path, err := kit.WriteWorkbook("4_Funding_Sources_BG41.xlsx", "Wrong Sheet", [][]any{{"Funding_ID"}})
	require.NoError(t, err)

	rep, err := svc.ValidateFile(path, "")

	require.NoError(t, err)
	assert.Equal(t, report.StatusRejected, rep.Status)
	assert.Contains(t, rep.Errors, "Expected worksheet 'Funding Sources' not found")
	assert.Empty(t, rep.Checks)
}

func TestValidateFile_CorruptWorkbookIsRejectedNotFatal(t *testing.T) {
	svc, kit := newTestService(t)
	path, err := kit.WriteCorrupt("3_Value_Chain_Mapping.xlsx")
	require.NoError(t, err)

	rep, err := svc.ValidateFile(path, "")

	require.NoError(t, err)
	assert.Equal(t, report.StatusRejected, rep.Status)
	require.Len(t, rep.Errors, 1)
	assert.Contains(t, rep.Errors[0], "Failed to load file")
	assert.Empty(t, rep.Checks)
}

func TestValidateFile_UnknownTemplateIsAnError(t *testing.T) {
	svc, kit := newTestService(t)
	path, err := kit.WriteCorrupt("notes.xlsx")
	require.NoError(t, err)

	_, err = svc.ValidateFile(path, "")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnknownTemplate, apperrors.GetCode(err))
}

func TestValidateFile_WritesReportToOutputPath(t *testing.T) {
	svc, kit := newTestService(t)
	path, err := kit.WriteWorkbook("2_Stakeholder_Mapping.xlsx", "Stakeholder Mapping", testkit.StakeholderRows(2))
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "report.json")
	_, err = svc.ValidateFile(path, outPath)

	require.NoError(t, err)
	_, err = os.Stat(outPath)
	assert.NoError(t, err)
}

func TestValidateFile_IsIdempotent(t *testing.T) {
	svc, kit := newTestService(t)
	rows := testkit.StakeholderRows(3)
	// Introduce a warning so both message lists are non-trivial.
	rows[3][6] = "not-an-email"
	path, err := kit.WriteWorkbook("2_Stakeholder_Mapping.xlsx", "Stakeholder Mapping", rows)
	require.NoError(t, err)

	first, err := svc.ValidateFile(path, "")
	require.NoError(t, err)
	second, err := svc.ValidateFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestValidateBatch_IsolatesPerFileFailures(t *testing.T) {
	svc, kit := newTestService(t)
	_, err := kit.WriteWorkbook("2_Stakeholder_Mapping_PT16.xlsx", "Stakeholder Mapping", testkit.StakeholderRows(4))
	require.NoError(t, err)
	_, err = kit.WriteWorkbook("2_Stakeholder_Mapping_EL54.xlsx", "Stakeholder Mapping", testkit.StakeholderRows(2))
	require.NoError(t, err)
	_, err = kit.WriteWorkbook("1_Organization_Registry_PT16.xlsx", "Your Input", testkit.OrganizationRows(2, 2))
	require.NoError(t, err)
	_, err = kit.WriteCorrupt("5_Focus_Group_Notes_LT01.xlsx")
	require.NoError(t, err)
	// Non-spreadsheet files are not picked up.
	require.NoError(t, os.WriteFile(filepath.Join(kit.Dir(), "readme.txt"), []byte("ignore me"), 0o644))

	outDir := filepath.Join(t.TempDir(), "reports")
	reports, err := svc.ValidateBatch(kit.Dir(), outDir)

	require.NoError(t, err)
	require.Len(t, reports, 4)

	errorCount := 0
	for _, rep := range reports {
		if rep.Status == report.StatusError {
			errorCount++
			assert.Equal(t, "5_Focus_Group_Notes_LT01.xlsx", rep.Metadata.FileName)
		}
	}
	assert.Equal(t, 1, errorCount)

	// Each report is persisted under <stem>_validation_report.json.
	_, err = os.Stat(filepath.Join(outDir, "2_Stakeholder_Mapping_PT16_validation_report.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "5_Focus_Group_Notes_LT01_validation_report.json"))
	assert.NoError(t, err)
}

func TestValidateBatch_MissingDirectory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ValidateBatch(filepath.Join(t.TempDir(), "absent"), "")

	assert.Error(t, err)
}
