package cmd

import (
	"fmt"
	"os"

	"github.com/Rana718/liteport/internal/config"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.4.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔════════════════════════════════════════════╗",
		"║   _ _ _                        _           ║",
		"║  | (_) |_ ___ _ __   ___  _ __| |_         ║",
		"║  | | | __/ _ \\ '_ \\ / _ \\| '__| __|        ║",
		"║  | | | ||  __/ |_) | (_) | |  | |_         ║",
		"║  |_|_|\\__\\___| .__/ \\___/|_|   \\__|        ║",
		"║              |_|                           ║",
		"║                                            ║",
		"║      🐬 MySQL dumps  ➜  SQLite 🪶          ║",
		"╚════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "liteport",
	Short: "Load MySQL dumps into SQLite",
	Long: `
liteport reads a MySQL dump, rewrites its table definitions and literals
for SQLite and loads the result, skipping the statements SQLite rejects.

Commands:
- convert    load a dump file into a SQLite database
- translate  write the SQLite script instead of executing it
- pull       dump a live MySQL database and load it
- verify     list the tables of a SQLite database`,
	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("liteport version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		color.Red("❌ %v", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	flags.BoolP("verbose", "V", false, "Show debug lines")
	flags.Int("batch-size", 50, "Data statements per transaction")
	flags.String("log-file", "", "Also write the run log to this file")
	flags.String("report", "", "Write a YAML run report to this file")
	flags.Bool("if-not-exists", false, "Emit CREATE TABLE IF NOT EXISTS")

	viper.BindPFlag("output.verbose", flags.Lookup("verbose"))
	viper.BindPFlag("engine.batch_size", flags.Lookup("batch-size"))
	viper.BindPFlag("output.log_file", flags.Lookup("log-file"))
	viper.BindPFlag("output.report_file", flags.Lookup("report"))
	viper.BindPFlag("translate.create_if_not_exists", flags.Lookup("if-not-exists"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("liteport.config")
	}

	viper.SetEnvPrefix("LITEPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "⚠️  cannot read config %s: %v\n", cfgFile, err)
	}
}
