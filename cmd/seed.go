package cmd

import (
	"fmt"

	"github.com/Rana718/gridbase/internal/grid"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	seedTable int64
	seedRows  int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a table with generated rows",
	Long: fmt.Sprintf(`Generate fake rows for every column of a table: a sentence for text
columns, an integer for number columns. Between %d and %d rows per run.`, grid.MinFakeRows, grid.MaxFakeRows),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, err := openService(cmd)
		if err != nil {
			return err
		}
		defer svc.Store().Close()

		color.Cyan("🌱 Generating %d rows for table %d...", seedRows, seedTable)
		n, err := svc.GenerateFakeRows(cmd.Context(), seedTable, seedRows)
		if err != nil {
			if n > 0 {
				color.Yellow("⚠️  %d rows were inserted before the failure", n)
			}
			return err
		}
		color.Green("✅ Inserted %d rows", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Int64Var(&seedTable, "table", 0, "Table id to seed")
	seedCmd.Flags().IntVar(&seedRows, "rows", 1000, "Number of rows to generate")
	seedCmd.MarkFlagRequired("table")
}
