package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{
			name:     "message only",
			diag:     Diagnostic{Message: "nothing to import"},
			expected: "nothing to import",
		},
		{
			name:     "with code, line and field",
			diag:     Diagnostic{Code: CodeInvalidField, Message: "bad date", Line: 4, Field: "date"},
			expected: "line 4 date: [invalid_field] bad date",
		},
		{
			name: "with suggestions",
			diag: Diagnostic{
				Code:        CodeEmployeeNotFound,
				Message:     `no employee matches "Marcus Pereira"`,
				Line:        2,
				Suggestions: []string{"Marcos Pereira", "Marco Pereira"},
			},
			expected: `line 2: [employee_not_found] no employee matches "Marcus Pereira" (did you mean: Marcos Pereira, Marco Pereira?)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diag.String())
		})
	}
}

func TestDiagnostics_Collect(t *testing.T) {
	var d Diagnostics

	assert.False(t, d.HasErrors())

	d.AddInfo(CodeContractFallback, "routed to fallback", 3, "contract")
	d.AddWarning(CodeEmployeeNotFound, "skipped", 4, "employee", "Ana Souza")
	d.AddError(CodeInvalidField, "bad amount", 5, "amount")
	d.AddError(CodeMissingField, "no date", 6, "date")

	assert.Equal(t, 4, d.Len())
	assert.True(t, d.HasErrors())
	assert.Equal(t, 1, d.Count(CodeContractFallback))
	assert.Equal(t, []string{"Ana Souza"}, d.Warnings[0].Suggestions)
	assert.Equal(t, SeverityWarning, d.Warnings[0].Severity)
	assert.Equal(t, "line 5 amount: [invalid_field] bad amount", d.Errors[0].String())
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddInfo(CodeContractNotFound, "x", 1, "")
	b.AddWarning(CodeEmployeeNotFound, "y", 2, "")
	b.AddInfo(CodeEquipmentNotFound, "z", 2, "")

	a.Merge(b)
	assert.Len(t, a.Infos, 2)
	assert.Len(t, a.Warnings, 1)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
