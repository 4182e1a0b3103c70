package cmd

import (
	"fmt"
	"os"

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
		"║                                            ║",
		"║     ▦ ▦ ▦   g r i d b a s e   ▦ ▦ ▦        ║",
		"║                                            ║",
		"║   Sorted, filtered, searchable row pages   ║",
		"║                                            ║",
		"╚════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("              ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "gridbase",
	Short: "A spreadsheet-style row store with keyset-paged views",
	Long: `
gridbase stores bases, tables and rows whose fields live in a JSON attribute
bag, and serves them page by page under a view's sort, filters and search.

Database Support:
- PostgreSQL (jsonb attribute bag)
- SQLite (embedded, JSON1 attribute bag)`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("gridbase version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./gridbase.config.json)")
	rootCmd.PersistentFlags().String("db", "", "Database URL (overrides config/env)")

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
		viper.SetConfigName("gridbase.config")
	}

	viper.SetEnvPrefix("GRIDBASE")
	viper.AutomaticEnv()

	viper.ReadInConfig()
}
