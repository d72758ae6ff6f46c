package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"import-reconciler/internal/importer"
	"import-reconciler/internal/sheet"
)

type reconcileOptions struct {
	input          string
	inputSheet     string
	roster         string
	employeesSheet string
	contractsSheet string
	equipmentSheet string
	output         string
	dryRun         bool
}

type importFunc func(*importer.Service, context.Context, importer.Request) (*importer.Report, error)

func newReconcileCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile an import spreadsheet against the rosters",
	}

	cmd.AddCommand(
		newImportCmd(global, "advances", "Reconcile salary advances", (*importer.Service).ImportAdvances),
		newImportCmd(global, "service-calls", "Reconcile service calls", (*importer.Service).ImportServiceCalls),
	)

	return cmd
}

func newImportCmd(global *globalOptions, use, short string, run importFunc) *cobra.Command {
	var opts reconcileOptions

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), global, opts, run, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Workbook with the rows to import (required)")
	cmd.Flags().StringVar(&opts.inputSheet, "input-sheet", "", "Rows sheet (default: first sheet)")
	cmd.Flags().StringVar(&opts.roster, "roster", "", "Workbook with the roster sheets (required)")
	cmd.Flags().StringVar(&opts.employeesSheet, "employees-sheet", importer.DefaultEmployeesSheet, "Employee roster sheet")
	cmd.Flags().StringVar(&opts.contractsSheet, "contracts-sheet", importer.DefaultContractsSheet, "Contract roster sheet")
	cmd.Flags().StringVar(&opts.equipmentSheet, "equipment-sheet", importer.DefaultEquipmentSheet, "Equipment roster sheet (optional)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Result workbook path")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Reconcile and report without writing a result workbook")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("roster")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if !opts.dryRun && opts.output == "" {
			return errors.New("--output is required unless --dry-run is set")
		}

		return nil
	}

	return cmd
}

func runImport(
	ctx context.Context,
	global *globalOptions,
	opts reconcileOptions,
	run importFunc,
	stdout io.Writer,
) (err error) {
	cfg, log, err := global.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	layout := sheet.NewLayout(cfg.Columns)

	rosters, err := sheet.Open(opts.roster, layout)
	if err != nil {
		return err
	}
	defer rosters.Close()

	input, err := sheet.Open(opts.input, layout)
	if err != nil {
		return err
	}
	defer input.Close()

	req := importer.Request{
		Rosters:        rosters,
		Input:          input,
		InputSheet:     opts.inputSheet,
		EmployeesSheet: opts.employeesSheet,
		ContractsSheet: opts.contractsSheet,
		EquipmentSheet: opts.equipmentSheet,
	}

	var out *os.File

	if !opts.dryRun {
		out, err = os.CreateTemp(filepath.Dir(opts.output), ".reconcile-*.xlsx")
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}

		defer func() {
			_ = out.Close()
			if err != nil {
				_ = os.Remove(out.Name())
			}
		}()

		req.Output = out
	}

	report, err := run(importer.NewService(log, cfg), ctx, req)
	if report != nil {
		fmt.Fprintf(stdout, "batch %s: %s\n", report.BatchID, report.Summary)

		if report.Invalid > 0 {
			fmt.Fprintf(stdout, "%d rows rejected (invalid fields)\n", report.Invalid)
		}
	}

	if err != nil {
		return err
	}

	if out != nil {
		if err = out.Close(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if err = os.Rename(out.Name(), opts.output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		fmt.Fprintf(stdout, "written to %s\n", opts.output)
	}

	return nil
}
