package sheet

import (
	"errors"
	"fmt"
	"strings"

	"import-reconciler/internal/match"
)

// ErrMissingColumn is returned when a sheet lacks a required column.
var ErrMissingColumn = errors.New("required column not found")

// Column is a logical column, independent of the header text used in a
// particular workbook.
type Column string

const (
	ColEmployee    Column = "employee"
	ColContract    Column = "contract"
	ColEquipment   Column = "equipment"
	ColDate        Column = "date"
	ColAmount      Column = "amount"
	ColDescription Column = "description"
	ColStatus      Column = "status"
	ColID          Column = "id"
	ColName        Column = "name"
	ColNumber      Column = "number"
	ColClient      Column = "client"
	ColSerial      Column = "serial"
)

// Header aliases, compared after match.ReferenceKey so case and accents do
// not matter.
var defaultAliases = map[Column][]string{
	ColEmployee:    {"funcionário", "colaborador", "nome do funcionário", "técnico", "employee"},
	ColContract:    {"contrato", "número do contrato", "contract"},
	ColEquipment:   {"equipamento", "série do equipamento", "equipment", "equipment serial"},
	ColDate:        {"data", "data do adiantamento", "data do chamado", "date"},
	ColAmount:      {"valor", "valor (r$)", "amount", "value"},
	ColDescription: {"descrição", "observação", "observações", "description", "notes"},
	ColStatus:      {"status", "situação"},
	ColID:          {"id", "código", "codigo", "code"},
	ColName:        {"nome", "nome completo", "full_name", "full name", "name"},
	ColNumber:      {"número", "numero", "number"},
	ColClient:      {"cliente", "client_name", "client", "razão social"},
	ColSerial:      {"número de série", "serial_number", "serial", "série"},
}

// Layout maps header text to logical columns.
type Layout struct {
	aliases map[string]Column // normalized header -> column
}

// NewLayout builds a Layout from the built-in aliases extended with extra
// (column name -> header aliases). Later entries win on conflicts.
func NewLayout(extra map[string][]string) *Layout {
	l := &Layout{aliases: make(map[string]Column)}

	for col, names := range defaultAliases {
		l.add(col, names)
	}

	for col, names := range extra {
		l.add(Column(strings.ToLower(strings.TrimSpace(col))), names)
	}

	return l
}

func (l *Layout) add(col Column, names []string) {
	for _, n := range names {
		if key := match.ReferenceKey(n); key != "" {
			l.aliases[key] = col
		}
	}
}

// columnIndex maps logical columns to zero-based cell positions.
type columnIndex map[Column]int

// detect locates columns in a header row. The first header cell naming a
// column wins. Missing required columns are reported together.
func (l *Layout) detect(header []string, required ...Column) (columnIndex, error) {
	idx := make(columnIndex)

	for i, h := range header {
		col, ok := l.aliases[match.ReferenceKey(h)]
		if !ok {
			continue
		}

		if _, seen := idx[col]; !seen {
			idx[col] = i
		}
	}

	var missing []string

	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, string(col))
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return idx, nil
}

// cell returns the trimmed value of col in row, or "" when the column is
// absent or the row is short.
func (idx columnIndex) cell(row []string, col Column) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}
