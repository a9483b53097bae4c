package excel

import (
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/fbal23/BIO-RED-Validation-Portal/domain/submission"
	apperrors "github.com/fbal23/BIO-RED-Validation-Portal/internal/errors"
)

// Workbook wraps one open spreadsheet file. Cell values are read as their
// display text (formula results, not formulas), which is what the
// validation checks operate on.
type Workbook struct {
	file *excelize.File
	path string
}

// OpenWorkbook opens a spreadsheet file for reading. A missing or
// unreadable file is a coded error the caller surfaces as a validation
// failure, never a panic.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.WorkbookUnreadable(path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.WorkbookUnreadable(path, err)
	}
	return &Workbook{file: f, path: path}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames lists the workbook's sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether the named sheet exists.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// Grid reads the named sheet into a raw cell grid.
func (w *Workbook) Grid(name string) (submission.RawGrid, error) {
	if !w.HasSheet(name) {
		return nil, apperrors.SheetNotFound(name)
	}
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, apperrors.WorksheetUnparsable(name, err)
	}
	return submission.RawGrid(rows), nil
}
