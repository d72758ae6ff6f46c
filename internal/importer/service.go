// Package importer runs a spreadsheet import end to end: load rosters and
// rows, reconcile, apply the abort/warn policy and write the result.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"import-reconciler/internal/common"
	"import-reconciler/internal/config"
	"import-reconciler/internal/diagnostic"
	"import-reconciler/internal/match"
	"import-reconciler/internal/reconcile"
	"import-reconciler/internal/sheet"
)

var (
	// ErrNothingResolved is returned when a non-empty batch resolves no rows.
	ErrNothingResolved = errors.New("no row could be matched to an employee")
	// ErrFallbackContractNotFound is returned when the configured fallback
	// contract is not in the contract roster.
	ErrFallbackContractNotFound = errors.New("fallback contract not found")
)

// Roster sheet defaults.
const (
	DefaultEmployeesSheet = "Funcionarios"
	DefaultContractsSheet = "Contratos"
	DefaultEquipmentSheet = "Equipamentos"
)

// Request describes one import run.
type Request struct {
	// Rosters is the workbook holding the roster sheets.
	Rosters *sheet.Workbook
	// Input is the workbook holding the rows to import.
	Input *sheet.Workbook
	// InputSheet selects the rows sheet; empty means the first sheet.
	InputSheet string

	EmployeesSheet string
	ContractsSheet string
	// EquipmentSheet is optional; when the sheet is absent equipment is not
	// resolved.
	EquipmentSheet string

	// Output receives the result workbook. Nil means dry run.
	Output io.Writer
}

// Report summarizes a run.
type Report struct {
	BatchID     string
	Kind        reconcile.RowKind
	Total       int
	Imported    int
	Unresolved  int
	Fallback    int
	Invalid     int
	Diagnostics diagnostic.Diagnostics
	Summary     string
	DryRun      bool
}

// Service runs imports. It is safe for concurrent use.
type Service struct {
	log *zap.Logger
	cfg *config.Config
	res *match.Resolver
}

// NewService creates an import service. A nil config means config.Default().
func NewService(log *zap.Logger, cfg *config.Config) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	if cfg == nil {
		cfg = config.Default()
	}

	return &Service{
		log: log,
		cfg: cfg,
		res: match.NewResolver(cfg.Normalizer()),
	}
}

// Resolver returns the name resolver built from the configuration.
func (s *Service) Resolver() *match.Resolver {
	return s.res
}

// LoadRosters reads the roster sheets named in req.
func (s *Service) LoadRosters(req Request) (reconcile.Rosters, error) {
	var rosters reconcile.Rosters

	employees, err := req.Rosters.Employees(common.NonEmpty(req.EmployeesSheet, DefaultEmployeesSheet))
	if err != nil {
		return rosters, fmt.Errorf("failed to load employees: %w", err)
	}

	contracts, err := req.Rosters.Contracts(common.NonEmpty(req.ContractsSheet, DefaultContractsSheet))
	if err != nil {
		return rosters, fmt.Errorf("failed to load contracts: %w", err)
	}

	rosters.Employees = employees
	rosters.Contracts = contracts

	equipmentSheet := common.NonEmpty(req.EquipmentSheet, DefaultEquipmentSheet)
	if req.Rosters.HasSheet(equipmentSheet) {
		equipment, err := req.Rosters.Equipment(equipmentSheet)
		if err != nil {
			return rosters, fmt.Errorf("failed to load equipment: %w", err)
		}

		rosters.Equipment = equipment
	}

	s.log.Debug("Rosters loaded",
		zap.Int("employees", len(rosters.Employees)),
		zap.Int("contracts", len(rosters.Contracts)),
		zap.Int("equipment", len(rosters.Equipment)),
		zap.Bool("equipment_supplied", rosters.Equipment != nil))

	return rosters, nil
}

// FallbackContractID resolves the configured fallback contract against the
// roster, by id first and then by number or client name. Empty config means
// no fallback.
func (s *Service) FallbackContractID(contracts []reconcile.Contract) (string, error) {
	ref := s.cfg.FallbackContract
	if ref == "" {
		return "", nil
	}

	for _, c := range contracts {
		if c.ID == ref {
			return c.ID, nil
		}
	}

	if id, ok := reconcile.NewContractIndex(contracts).Lookup(ref); ok {
		return id, nil
	}

	return "", fmt.Errorf("%w: %q", ErrFallbackContractNotFound, ref)
}

// ImportAdvances reconciles the advances sheet of req.Input.
func (s *Service) ImportAdvances(ctx context.Context, req Request) (*Report, error) {
	return run[reconcile.AdvanceImportRow](ctx, s, req, reconcile.RowKindAdvance,
		req.Input.Advances, sheet.WriteAdvances)
}

// ImportServiceCalls reconciles the service calls sheet of req.Input.
func (s *Service) ImportServiceCalls(ctx context.Context, req Request) (*Report, error) {
	return run[reconcile.ServiceCallImportRow](ctx, s, req, reconcile.RowKindServiceCall,
		req.Input.ServiceCalls, sheet.WriteServiceCalls)
}

type (
	decodeFunc[R reconcile.Row] func(sheet string) ([]R, diagnostic.Diagnostics, error)
	writeFunc[R reconcile.Row]  func(io.Writer, reconcile.Outcome[R], diagnostic.Diagnostics) error
)

func run[R reconcile.Row](
	ctx context.Context,
	s *Service,
	req Request,
	kind reconcile.RowKind,
	decode decodeFunc[R],
	write writeFunc[R],
) (*Report, error) {
	batchID := uuid.NewString()
	log := s.log.With(zap.String("batch_id", batchID), zap.Stringer("kind", kind))

	rosters, err := s.LoadRosters(req)
	if err != nil {
		return nil, err
	}

	fallbackID, err := s.FallbackContractID(rosters.Contracts)
	if err != nil {
		return nil, err
	}

	rows, decodeDiags, err := decode(req.InputSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", kind, err)
	}

	for _, d := range decodeDiags.Errors {
		log.Warn("Row rejected", zap.Int("line", d.Line), zap.String("field", d.Field), zap.String("reason", d.Message))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := reconcile.Reconcile(rows, rosters, reconcile.Options{
		Resolver:                s.res,
		FallbackContractID:      fallbackID,
		SuggestionLimit:         s.cfg.SuggestionLimit,
		MinSuggestionSimilarity: s.cfg.MinSuggestionScore,
	})

	for _, d := range out.Diagnostics.Warnings {
		log.Warn("Row skipped", zap.Int("line", d.Line), zap.String("reason", d.Message),
			zap.Strings("suggestions", d.Suggestions))
	}

	report := &Report{
		BatchID:    batchID,
		Kind:       kind,
		Total:      len(rows) + len(decodeDiags.Errors),
		Imported:   len(out.Resolved),
		Unresolved: out.UnresolvedCount,
		Fallback:   out.FallbackCount,
		Invalid:    len(decodeDiags.Errors),
		Summary:    out.Summary(),
		DryRun:     req.Output == nil,
	}
	report.Diagnostics.Merge(decodeDiags)
	report.Diagnostics.Merge(out.Diagnostics)

	if len(rows) > 0 && len(out.Resolved) == 0 {
		log.Error("Import aborted", zap.Int("rows", len(rows)), zap.Int("unresolved", out.UnresolvedCount))

		return report, fmt.Errorf("%w (%d rows)", ErrNothingResolved, len(rows))
	}

	if req.Output != nil {
		// Buffer so a failed write never leaves a partial workbook behind.
		var buf bytes.Buffer
		if err := write(&buf, out, decodeDiags); err != nil {
			return report, err
		}

		if _, err := buf.WriteTo(req.Output); err != nil {
			return report, fmt.Errorf("failed to write result: %w", err)
		}
	}

	fields := []zap.Field{
		zap.Int("imported", report.Imported),
		zap.Int("unresolved", report.Unresolved),
		zap.Int("fallback", report.Fallback),
		zap.Int("invalid", report.Invalid),
		zap.Bool("dry_run", report.DryRun),
	}

	if report.Unresolved > 0 || decodeDiags.HasErrors() {
		log.Warn("Import finished with skipped rows: "+report.Summary, fields...)
	} else {
		log.Info("Import finished: "+report.Summary, fields...)
	}

	return report, nil
}
