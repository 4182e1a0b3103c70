package cmd

import (
	"github.com/Rana718/gridbase/internal/fixtures"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <fixture.yaml>",
	Short: "Import a table, its rows and its view from a YAML fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := fixtures.Load(args[0])
		if err != nil {
			return err
		}

		svc, _, _, err := openService(cmd)
		if err != nil {
			return err
		}
		defer svc.Store().Close()

		result, err := fixtures.Import(cmd.Context(), svc, fixture)
		if err != nil {
			return err
		}

		color.Green("✅ Imported table %q (id %d) into base %q (id %d)",
			result.Table.Name, result.Table.ID, result.Base.Name, result.Base.ID)
		color.Cyan("   %d columns, %d rows", len(result.Table.Columns), result.Rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
