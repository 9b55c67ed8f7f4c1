package cmd

import (
	"fmt"
	"os"

	"github.com/Rana718/liteport/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a liteport config file",
	Long:  `Write ` + config.FileName + ` with the default settings into the current directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitializeProject(); err != nil {
			return err
		}

		cfg := config.DefaultConfig()
		fmt.Printf("✅ Created %s\n", config.FileName)
		fmt.Println()
		if os.Getenv(cfg.Source.URLEnv) != "" {
			fmt.Printf("ℹ️  Using existing %s from environment\n", cfg.Source.URLEnv)
			fmt.Println()
		}
		fmt.Printf("🚀 Next steps:\n")
		fmt.Printf("   liteport convert dump.sql app.db   # Load a dump file\n")
		fmt.Printf("   liteport pull app.db               # Copy a live database ($%s)\n", cfg.Source.URLEnv)
		fmt.Printf("   liteport verify app.db             # Inspect the result\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
