package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"import-reconciler/internal/importer"
	"import-reconciler/internal/sheet"
)

func newResolveCmd(global *globalOptions) *cobra.Command {
	var (
		rosterPath string
		sheetName  string
	)

	cmd := &cobra.Command{
		Use:   "resolve <name>...",
		Short: "Resolve employee names against the roster and show near misses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := global.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			wb, err := sheet.Open(rosterPath, sheet.NewLayout(cfg.Columns))
			if err != nil {
				return err
			}
			defer wb.Close()

			svc := importer.NewService(log, cfg)

			employees, err := wb.Employees(sheetName)
			if err != nil {
				return err
			}

			resolver := svc.Resolver()
			roster := resolver.Prepare(employees)
			out := cmd.OutOrStdout()

			for _, name := range args {
				m := resolver.ResolveIn(name, roster)
				log.Debug("Resolved", zap.String("name", name), zap.Bool("matched", m.Matched),
					zap.Int("score", m.Score), zap.Bool("exact", m.Exact))

				if m.Matched {
					fmt.Fprintf(out, "%s\t%s\tscore=%d exact=%t\n", name, m.ID, m.Score, m.Exact)

					continue
				}

				fmt.Fprintf(out, "%s\t-\tno match", name)

				suggestions := resolver.Suggest(name, roster, cfg.SuggestionLimit, cfg.MinSuggestionScore)
				for _, s := range suggestions {
					fmt.Fprintf(out, "\n\t%s (%s) %.2f", s.DisplayName, s.ID, s.Similarity)
				}

				fmt.Fprintln(out)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&rosterPath, "roster", "", "Workbook with the employee roster (required)")
	cmd.Flags().StringVar(&sheetName, "sheet", importer.DefaultEmployeesSheet, "Employee roster sheet")

	_ = cmd.MarkFlagRequired("roster")

	return cmd
}
