package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

//go:generate go tool stringer -type=RowKind -trimprefix=RowKind -output=rowkind_string.go

// RowKind tags the business record an import row carries.
type RowKind int

const (
	_ RowKind = iota // zero value is invalid

	RowKindAdvance
	RowKindServiceCall
)

// References are the free-text fields of a row that need resolving.
type References struct {
	EmployeeName string
	// ContractRef is a contract number or client name.
	ContractRef string
	// EquipmentSerial is optional.
	EquipmentSerial string
}

// Row is an import row that Reconcile can resolve.
type Row interface {
	Kind() RowKind
	// SourceLine is the 1-based spreadsheet line, used in diagnostics.
	SourceLine() int
	References() References
}

// AdvanceImportRow is a salary advance paid to an employee.
type AdvanceImportRow struct {
	Line         int
	EmployeeName string
	ContractRef  string
	Date         time.Time
	Amount       decimal.Decimal
	Description  string
}

func (r AdvanceImportRow) Kind() RowKind   { return RowKindAdvance }
func (r AdvanceImportRow) SourceLine() int { return r.Line }

func (r AdvanceImportRow) References() References {
	return References{EmployeeName: r.EmployeeName, ContractRef: r.ContractRef}
}

// ServiceCallImportRow is a field service call handled by an employee,
// optionally on a specific piece of equipment.
type ServiceCallImportRow struct {
	Line            int
	EmployeeName    string
	ContractRef     string
	EquipmentSerial string
	Date            time.Time
	Description     string
	Status          string
}

func (r ServiceCallImportRow) Kind() RowKind   { return RowKindServiceCall }
func (r ServiceCallImportRow) SourceLine() int { return r.Line }

func (r ServiceCallImportRow) References() References {
	return References{
		EmployeeName:    r.EmployeeName,
		ContractRef:     r.ContractRef,
		EquipmentSerial: r.EquipmentSerial,
	}
}
