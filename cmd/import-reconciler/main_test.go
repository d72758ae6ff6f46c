package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func saveWorkbook(t *testing.T, path string, order []string, sheets map[string][][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}

		for r := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &sheets[name][r]))
		}
	}

	require.NoError(t, f.SaveAs(path))
}

func fixtures(t *testing.T) (dir, roster, input string) {
	dir = t.TempDir()
	roster = filepath.Join(dir, "rosters.xlsx")
	input = filepath.Join(dir, "advances.xlsx")

	saveWorkbook(t, roster, []string{"Funcionarios", "Contratos"}, map[string][][]any{
		"Funcionarios": {
			{"ID", "Nome"},
			{"e1", "Luis Carlos Andrade Souza"},
			{"e2", "Marcos Pereira"},
		},
		"Contratos": {
			{"ID", "Número", "Cliente"},
			{"c1", "CT-001", "Prefeitura"},
		},
	})

	saveWorkbook(t, input, []string{"Adiantamentos"}, map[string][][]any{
		"Adiantamentos": {
			{"Funcionário", "Contrato", "Data", "Valor"},
			{"Luis C Souza", "CT-001", "2024-03-01", "100"},
			{"Marcus Pereira", "CT-001", "2024-03-01", "100"},
		},
	})

	return dir, roster, input
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()

	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	_, roster, _ := fixtures(t)

	out, err := execute(t, "resolve", "--roster", roster, "Luís C. Souza", "Marcus Pereira")
	require.NoError(t, err)

	assert.Contains(t, out, "Luís C. Souza\te1\tscore=6 exact=false")
	assert.Contains(t, out, "Marcus Pereira\t-\tno match")
	assert.Contains(t, out, "Marcos Pereira (e2)")
}

func TestReconcileAdvancesCommand(t *testing.T) {
	dir, roster, input := fixtures(t)
	output := filepath.Join(dir, "result.xlsx")

	out, err := execute(t, "reconcile", "advances", "--roster", roster, "--input", input, "-o", output)
	require.NoError(t, err)

	assert.Contains(t, out, "1 rows imported, 1 skipped (employee not found)")
	assert.Contains(t, out, "written to "+output)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Resolved")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "e1", rows[1][1])
}

func TestReconcileAdvancesCommand_DryRun(t *testing.T) {
	dir, roster, input := fixtures(t)

	out, err := execute(t, "reconcile", "advances", "--roster", roster, "--input", input, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "1 rows imported")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "dry run writes nothing")
}

func TestReconcileCommand_RequiresOutput(t *testing.T) {
	_, roster, input := fixtures(t)

	_, err := execute(t, "reconcile", "advances", "--roster", roster, "--input", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestReconcileCommand_NothingResolvedLeavesNoFile(t *testing.T) {
	dir, roster, _ := fixtures(t)
	input := filepath.Join(dir, "calls.xlsx")
	output := filepath.Join(dir, "result.xlsx")

	saveWorkbook(t, input, []string{"Chamados"}, map[string][][]any{
		"Chamados": {
			{"Técnico", "Data"},
			{"Fulano de Tal", "2024-03-01"},
		},
	})

	_, err := execute(t, "reconcile", "service-calls", "--roster", roster, "--input", input, "-o", output)
	require.Error(t, err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "temporary output is removed")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := newLogger("loud")
	require.Error(t, err)
}
