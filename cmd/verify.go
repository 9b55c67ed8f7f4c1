package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/liteport/internal/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <database.db>",
	Short: "List the tables of a SQLite database with their sizes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, log, err := loadService(nil)
		if err != nil {
			return err
		}
		defer log.Close()

		tables, err := svc.Verify(context.Background(), args[0])
		if err != nil {
			return err
		}

		var rows int64
		for _, t := range tables {
			rows += t.Rows
		}
		fmt.Printf("📊 %d table(s), %d row(s)\n\n", len(tables), rows)
		report.PrintTables(color.Output, tables)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
