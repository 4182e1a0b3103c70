package cmd

import (
	"github.com/Rana718/gridbase/internal/export"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportTable  int64
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a table's rows to JSON or CSV",
	Long: `Write every row of a table to a timestamped file, in the order and with
the filters of the table's view. Hidden columns are not exported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, err := openService(cmd)
		if err != nil {
			return err
		}
		defer svc.Store().Close()

		path, n, err := export.PerformExport(cmd.Context(), svc, exportTable, exportDir, exportFormat)
		if err != nil {
			return err
		}
		color.Green("✅ Exported %d rows to %s", n, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Int64Var(&exportTable, "table", 0, "Table id")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatJSON, "Output format: json or csv")
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "exports", "Directory to write the export into")
	exportCmd.MarkFlagRequired("table")
}
