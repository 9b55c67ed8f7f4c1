package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate <dump.sql> [output.sql]",
	Short: "Write the SQLite script for a MySQL dump",
	Long: `
Translate a MySQL dump into a SQLite script without executing it. The script
keeps the batch transactions a load would use. Without an output file the
script goes to stdout and the log to stderr.

Examples:
  liteport translate backup.sql > app.sql
  liteport translate backup.sql app.sql
  sqlite3 app.db < app.sql`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	output := "-"
	if len(args) == 2 {
		output = args[1]
	}

	svc, _, log, err := loadService(os.Stderr)
	if err != nil {
		return err
	}
	defer log.Close()

	rep, runErr := svc.Translate(context.Background(), args[0], output)
	if rep != nil && output != "-" {
		rep.PrintSummary(os.Stderr)
	}
	return runErr
}
