package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/liteport/internal/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <dump.sql> [output.db]",
	Short: "Load a MySQL dump file into a SQLite database",
	Long: `
Load a MySQL dump into a SQLite database. Table definitions are created first,
in one transaction, then the data is inserted in batches. Statements SQLite
rejects are logged and skipped; only an unreadable dump or a failing database
stops the run. Without an output argument the target.path setting is used.

Examples:
  liteport convert backup.sql app.db
  liteport convert backup.sql app.db --overwrite --report app.report.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("overwrite", false, "Remove an existing output database first")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], ""
	if len(args) > 1 {
		output = args[1]
	}

	svc, cfg, log, err := loadService(nil)
	if err != nil {
		return err
	}
	defer log.Close()

	svc.Overwrite, _ = cmd.Flags().GetBool("overwrite")

	fmt.Printf("📄 Input: %s\n", input)
	fmt.Printf("🎯 Target: %s (%s)\n", orDefault(output, cfg.Target.Path), cfg.Target.Provider)
	fmt.Println()

	rep, runErr := svc.Convert(context.Background(), input, output)
	if rep == nil {
		return runErr
	}

	fmt.Println()
	rep.PrintSummary(color.Output)
	if len(rep.Tables) > 0 {
		fmt.Println()
		report.PrintTables(color.Output, rep.Tables)
	}
	return runErr
}
