package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHeaderRow_SkipsBannerRows(t *testing.T) {
	grid := RawGrid{
		{"Partner submission template - fill in the sections below"},
		{},
		{"Organization_ID", "Organization_Name", "Type", "Country"},
		{"ORG-001", "Alpha", "SME", "PT"},
	}

	idx, columns := FindHeaderRow(grid)

	assert.Equal(t, 2, idx)
	assert.Equal(t, []string{"Organization_ID", "Organization_Name", "Type", "Country"}, columns)
}

func TestFindHeaderRow_OrganizationTypePair(t *testing.T) {
	grid := RawGrid{
		{"Instructions"},
		{"Organization", "Type", "Notes"},
	}

	idx, columns := FindHeaderRow(grid)

	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"Organization", "Type", "Notes"}, columns)
}

func TestFindHeaderRow_FallbackToFirstNonEmptyRow(t *testing.T) {
	grid := RawGrid{
		{},
		{"Facilitator", "Location"},
		{"Jane", "Porto"},
	}

	idx, columns := FindHeaderRow(grid)

	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"Facilitator", "Location"}, columns)
}

func TestFindHeaderRow_EmptyGrid(t *testing.T) {
	idx, columns := FindHeaderRow(RawGrid{})

	assert.Equal(t, -1, idx)
	assert.Nil(t, columns)
}

func TestFindHeaderRow_CleansColumnNames(t *testing.T) {
	grid := RawGrid{
		{" Stakeholder_ID* ", "", "Name*"},
	}

	_, columns := FindHeaderRow(grid)

	assert.Equal(t, []string{"Stakeholder_ID", "Column_1", "Name"}, columns)
}

func TestExtractTable_BannerBlankHeaderData(t *testing.T) {
	// Row 1 banner, row 2 blank, row 3 header, rows 4-6 data with row 5
	// entirely blank.
	grid := RawGrid{
		{"BIO-RED Organization Registry"},
		{},
		{"Organization_ID", "Organization_Name", "Type"},
		{"ORG-001", "Alpha", "SME"},
		{"", "", ""},
		{"ORG-002", "Beta", "University"},
	}

	table := ExtractTable(grid)

	require.Len(t, table.Rows, 2)
	assert.Contains(t, table.Columns, "Organization_ID")
	assert.Equal(t, "ORG-001", table.Rows[0]["Organization_ID"])
	assert.Equal(t, "ORG-002", table.Rows[1]["Organization_ID"])
}

func TestExtractTable_SkipsSectionAndAnnotationRows(t *testing.T) {
	grid := RawGrid{
		{"Stakeholder_ID", "Name"},
		{"SECTION B: new stakeholders", ""},
		{"* required field", ""},
		{"STK-001", "Jane"},
	}

	table := ExtractTable(grid)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "STK-001", table.Rows[0]["Stakeholder_ID"])
}

func TestExtractTable_EmptySubmissionKeepsColumns(t *testing.T) {
	grid := RawGrid{
		{"Chain_ID", "Chain_Name"},
	}

	table := ExtractTable(grid)

	assert.Equal(t, []string{"Chain_ID", "Chain_Name"}, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestExtractTable_ShortRowsFillMissingColumns(t *testing.T) {
	grid := RawGrid{
		{"Funding_ID", "Program_Name", "Type"},
		{"FND-001", "Horizon"},
	}

	table := ExtractTable(grid)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "", table.Rows[0]["Type"])
	assert.Len(t, table.Rows[0], 3)
}

func TestExtractTable_NoUsableRows(t *testing.T) {
	table := ExtractTable(RawGrid{{}, {""}})

	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}
