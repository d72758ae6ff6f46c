package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"import-reconciler/internal/diagnostic"
	"import-reconciler/internal/reconcile"
)

// Result workbook sheet names.
const (
	ResolvedSheet    = "Resolved"
	DiagnosticsSheet = "Diagnostics"
)

const dateFormat = "2006-01-02"

// WriteAdvances writes reconciled advances and diagnostics as an .xlsx
// workbook. Extra diagnostics (from decoding) are listed before the
// reconciliation ones.
func WriteAdvances(
	w io.Writer,
	out reconcile.Outcome[reconcile.AdvanceImportRow],
	extra diagnostic.Diagnostics,
) error {
	header := []string{"Line", "Employee ID", "Contract ID", "Third-party Contract", "Date", "Amount", "Description"}
	rows := make([][]any, 0, len(out.Resolved))

	for _, r := range out.Resolved {
		rows = append(rows, []any{
			r.Row.Line,
			r.EmployeeID,
			deref(r.ContractID),
			r.ThirdPartyContract,
			r.Row.Date.Format(dateFormat),
			r.Row.Amount,
			r.Row.Description,
		})
	}

	return writeResult(w, header, rows, merged(extra, out.Diagnostics))
}

// WriteServiceCalls writes reconciled service calls and diagnostics as an
// .xlsx workbook.
func WriteServiceCalls(
	w io.Writer,
	out reconcile.Outcome[reconcile.ServiceCallImportRow],
	extra diagnostic.Diagnostics,
) error {
	header := []string{
		"Line", "Employee ID", "Contract ID", "Third-party Contract",
		"Equipment ID", "Date", "Description", "Status",
	}
	rows := make([][]any, 0, len(out.Resolved))

	for _, r := range out.Resolved {
		rows = append(rows, []any{
			r.Row.Line,
			r.EmployeeID,
			deref(r.ContractID),
			r.ThirdPartyContract,
			deref(r.EquipmentID),
			r.Row.Date.Format(dateFormat),
			r.Row.Description,
			r.Row.Status,
		})
	}

	return writeResult(w, header, rows, merged(extra, out.Diagnostics))
}

func writeResult(w io.Writer, header []string, rows [][]any, diags diagnostic.Diagnostics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResolvedSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if _, err := f.NewSheet(DiagnosticsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeTable(f, ResolvedSheet, header, rows, headerStyle); err != nil {
		return err
	}

	diagHeader := []string{"Severity", "Line", "Code", "Field", "Message", "Suggestions"}
	diagRows := make([][]any, 0, diags.Len())

	for _, list := range [][]diagnostic.Diagnostic{diags.Errors, diags.Warnings, diags.Infos} {
		for _, d := range list {
			diagRows = append(diagRows, []any{
				d.Severity.String(), d.Line, d.Code, d.Field, d.Message, strings.Join(d.Suggestions, "; "),
			})
		}
	}

	if err := writeTable(f, DiagnosticsSheet, diagHeader, diagRows, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}

	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to name column: %w", err)
	}

	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}

		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}

		if err := setDecimals(f, sheet, i+2, rows[i]); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to size columns of %s: %w", sheet, err)
	}

	return nil
}

// setDecimals rewrites decimal.Decimal values of a row as numeric cells
// holding the exact decimal text. SetSheetRow would store them as strings.
func setDecimals(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		d, ok := v.(decimal.Decimal)
		if !ok {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}

		if err := f.SetCellDefault(sheet, cell, d.String()); err != nil {
			return fmt.Errorf("failed to write amount %s of %s: %w", cell, sheet, err)
		}
	}

	return nil
}

func merged(first, second diagnostic.Diagnostics) diagnostic.Diagnostics {
	var d diagnostic.Diagnostics

	d.Merge(first)
	d.Merge(second)

	return d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
