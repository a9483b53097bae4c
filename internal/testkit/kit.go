package testkit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Kit writes spreadsheet fixtures into a scratch directory so service and
// UI tests exercise the real workbook reader instead of canned grids.
type Kit struct {
	dir string
}

// NewKit creates a fixture kit rooted at dir (typically t.TempDir()).
func NewKit(dir string) *Kit {
	return &Kit{dir: dir}
}

// Dir returns the fixture directory.
func (k *Kit) Dir() string {
	return k.dir
}

// WriteWorkbook writes rows to a single named sheet and returns the file
// path. Nil or empty rows stay blank in the sheet.
func (k *Kit) WriteWorkbook(fileName, sheetName string, rows [][]any) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	path := filepath.Join(k.dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// WriteCorrupt writes a file with a spreadsheet extension but unreadable
// content.
func (k *Kit) WriteCorrupt(fileName string) (string, error) {
	path := filepath.Join(k.dir, fileName)
	if err := os.WriteFile(path, []byte("this is not a spreadsheet"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// StakeholderRows builds a fully valid Stakeholder Mapping sheet: a banner
// row, a blank row, an asterisk-marked header, then n data rows.
func StakeholderRows(n int) [][]any {
	rows := [][]any{
		{"BIO-RED Stakeholder Mapping Template - see instructions tab"},
		{},
		{"Stakeholder_ID*", "Name*", "Organization*", "Role*", "Influence*", "Interest*", "Email"},
	}
	for i := 1; i <= n; i++ {
		rows = append(rows, []any{
			fmt.Sprintf("STK-%03d", i),
			fmt.Sprintf("Person %d", i),
			"Regional Biotech Cluster",
			"Researcher",
			"High",
			"Medium",
			fmt.Sprintf("person%d@example.org", i),
		})
	}
	return rows
}

// OrganizationRows builds an Organization Registry sheet with the given
// counts of enhanced (marker column filled) and new rows. Enhanced rows
// carry three filled optional fields.
func OrganizationRows(enhanced, fresh int) [][]any {
	rows := [][]any{
		{"SECTION A: pre-seeded organizations - enhance the rows below"},
		{
			"Organization_ID", "Organization_Name", "Type", "Country", "NUTS2_Region",
			"City", "Website", "Specialization", "CORDIS_Organization_ID",
			"Employees", "Contact_Email", "Digital_Capacity",
		},
	}
	id := 0
	for i := 1; i <= enhanced; i++ {
		id++
		rows = append(rows, []any{
			fmt.Sprintf("ORG-%03d", id), fmt.Sprintf("Enhanced Org %d", i), "SME", "PT", "PT16",
			"Porto", "https://example.org", "Diagnostics", fmt.Sprintf("CORDIS-%04d", i),
			"120", fmt.Sprintf("org%d@example.org", id), "High",
		})
	}
	for i := 1; i <= fresh; i++ {
		id++
		rows = append(rows, []any{
			fmt.Sprintf("ORG-%03d", id), fmt.Sprintf("New Org %d", i), "SME", "PT", "PT16",
			"Braga", "https://example.org", "Biomaterials", "",
			"", "", "",
		})
	}
	return rows
}
