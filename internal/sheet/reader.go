package sheet

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"import-reconciler/internal/common"
	"import-reconciler/internal/diagnostic"
	"import-reconciler/internal/match"
	"import-reconciler/internal/reconcile"
)

// ErrSheetNotFound is returned when a named sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook reads rosters and import rows from an .xlsx workbook.
type Workbook struct {
	f      *excelize.File
	layout *Layout
}

// Open opens the workbook at path. A nil layout means the built-in aliases.
func Open(path string, layout *Layout) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	return newWorkbook(f, layout), nil
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader, layout *Layout) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	return newWorkbook(f, layout), nil
}

func newWorkbook(f *excelize.File, layout *Layout) *Workbook {
	if layout == nil {
		layout = NewLayout(nil)
	}

	return &Workbook{f: f, layout: layout}
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Sheets lists sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.f.GetSheetList()
}

// HasSheet reports whether the workbook has a sheet called name.
func (w *Workbook) HasSheet(name string) bool {
	return slices.Contains(w.Sheets(), name)
}

// table is a sheet split into its header and data rows.
type table struct {
	cols      columnIndex
	rows      [][]string
	firstLine int // spreadsheet line of rows[0]
}

// readTable loads a sheet (the first one when name is empty), takes the first
// non-blank row as header and locates the required columns.
func (w *Workbook) readTable(name string, required ...Column) (*table, error) {
	if name == "" {
		first, ok := common.First(w.Sheets())
		if !ok {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
		}

		name = first
	} else if !w.HasSheet(name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	rows, err := w.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %q: %w", name, err)
	}

	headerAt := slices.IndexFunc(rows, func(r []string) bool { return !isBlank(r) })
	if headerAt < 0 {
		return nil, fmt.Errorf("sheet %q: %w: sheet is empty", name, ErrMissingColumn)
	}

	cols, err := w.layout.detect(rows[headerAt], required...)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}

	return &table{cols: cols, rows: rows[headerAt+1:], firstLine: headerAt + 2}, nil
}

// each calls fn for every non-blank data row with its spreadsheet line.
func (t *table) each(fn func(line int, row []string)) {
	for i, row := range t.rows {
		if isBlank(row) {
			continue
		}

		fn(t.firstLine+i, row)
	}
}

// Employees reads the employee roster (id, name). Rows missing either
// value are skipped.
func (w *Workbook) Employees(sheet string) ([]match.Candidate, error) {
	t, err := w.readTable(sheet, ColID, ColName)
	if err != nil {
		return nil, err
	}

	var out []match.Candidate

	t.each(func(_ int, row []string) {
		id, name := t.cols.cell(row, ColID), t.cols.cell(row, ColName)
		if id == "" || name == "" {
			return
		}

		out = append(out, match.Candidate{ID: id, DisplayName: name})
	})

	return out, nil
}

// Contracts reads the contract roster (id, number, client name).
func (w *Workbook) Contracts(sheet string) ([]reconcile.Contract, error) {
	t, err := w.readTable(sheet, ColID, ColNumber)
	if err != nil {
		return nil, err
	}

	var out []reconcile.Contract

	t.each(func(_ int, row []string) {
		id := t.cols.cell(row, ColID)
		if id == "" {
			return
		}

		out = append(out, reconcile.Contract{
			ID:         id,
			Number:     t.cols.cell(row, ColNumber),
			ClientName: t.cols.cell(row, ColClient),
		})
	})

	return out, nil
}

// Equipment reads the equipment roster (id, serial number). The result is
// never nil on success, so an empty sheet still counts as a supplied roster.
func (w *Workbook) Equipment(sheet string) ([]reconcile.Equipment, error) {
	t, err := w.readTable(sheet, ColID, ColSerial)
	if err != nil {
		return nil, err
	}

	out := []reconcile.Equipment{}

	t.each(func(_ int, row []string) {
		id := t.cols.cell(row, ColID)
		if id == "" {
			return
		}

		out = append(out, reconcile.Equipment{ID: id, SerialNumber: t.cols.cell(row, ColSerial)})
	})

	return out, nil
}

// Advances decodes advance rows. Rows with an invalid date or a non-positive
// amount are reported as error diagnostics and left out.
func (w *Workbook) Advances(sheet string) ([]reconcile.AdvanceImportRow, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	t, err := w.readTable(sheet, ColEmployee, ColDate, ColAmount)
	if err != nil {
		return nil, diags, err
	}

	var out []reconcile.AdvanceImportRow

	t.each(func(line int, row []string) {
		date, ok := requireDate(&diags, line, t.cols.cell(row, ColDate))
		if !ok {
			return
		}

		rawAmount := t.cols.cell(row, ColAmount)

		amount, err := ParseAmount(rawAmount)
		if err != nil {
			diags.AddError(diagnostic.CodeInvalidField, err.Error(), line, string(ColAmount))

			return
		}

		if !amount.IsPositive() {
			diags.AddError(diagnostic.CodeInvalidField,
				fmt.Sprintf("amount must be positive, got %s", rawAmount), line, string(ColAmount))

			return
		}

		out = append(out, reconcile.AdvanceImportRow{
			Line:         line,
			EmployeeName: t.cols.cell(row, ColEmployee),
			ContractRef:  t.cols.cell(row, ColContract),
			Date:         date,
			Amount:       amount,
			Description:  t.cols.cell(row, ColDescription),
		})
	})

	return out, diags, nil
}

// ServiceCalls decodes service call rows. Rows with an invalid date are
// reported as error diagnostics and left out.
func (w *Workbook) ServiceCalls(sheet string) ([]reconcile.ServiceCallImportRow, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	t, err := w.readTable(sheet, ColEmployee, ColDate)
	if err != nil {
		return nil, diags, err
	}

	var out []reconcile.ServiceCallImportRow

	t.each(func(line int, row []string) {
		date, ok := requireDate(&diags, line, t.cols.cell(row, ColDate))
		if !ok {
			return
		}

		out = append(out, reconcile.ServiceCallImportRow{
			Line:            line,
			EmployeeName:    t.cols.cell(row, ColEmployee),
			ContractRef:     t.cols.cell(row, ColContract),
			EquipmentSerial: t.cols.cell(row, ColEquipment),
			Date:            date,
			Description:     t.cols.cell(row, ColDescription),
			Status:          t.cols.cell(row, ColStatus),
		})
	})

	return out, diags, nil
}

func requireDate(diags *diagnostic.Diagnostics, line int, raw string) (t time.Time, ok bool) {
	if raw == "" {
		diags.AddError(diagnostic.CodeMissingField, "date is required", line, string(ColDate))

		return t, false
	}

	t, err := ParseDate(raw)
	if err != nil {
		diags.AddError(diagnostic.CodeInvalidField, err.Error(), line, string(ColDate))

		return t, false
	}

	return t, true
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
