package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Rana718/gridbase/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	rowsTable    int64
	rowsSearch   string
	rowsPageSize int
	rowsAll      bool
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Print a table's rows under its current view",
	Long: `Print rows page by page, sorted and filtered by the table's view and
narrowed by an optional search term. Without --all only the first page is shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, err := openService(cmd)
		if err != nil {
			return err
		}
		defer svc.Store().Close()

		table, err := svc.GetTable(cmd.Context(), rowsTable)
		if err != nil {
			return err
		}

		hidden := map[int64]bool{}
		if table.View != nil {
			for _, id := range table.View.Config.HiddenColumns {
				hidden[id] = true
			}
		}
		var visible []types.Column
		for _, col := range table.Columns {
			if !hidden[col.ID] {
				visible = append(visible, col)
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		header := []string{"id"}
		for _, col := range visible {
			header = append(header, col.Name)
		}
		fmt.Fprintln(w, strings.Join(header, "\t"))

		req := types.FetchRowsRequest{TableID: rowsTable, PageSize: rowsPageSize, Search: rowsSearch}
		total, pages := 0, 0
		for {
			page, err := svc.FetchRows(cmd.Context(), req)
			if err != nil {
				return err
			}
			pages++
			for _, row := range page.Rows {
				cells := []string{fmt.Sprint(row.ID)}
				for _, col := range visible {
					cells = append(cells, formatCell(row.Attributes[col.Name]))
				}
				fmt.Fprintln(w, strings.Join(cells, "\t"))
			}
			total += len(page.Rows)

			if !rowsAll || !page.HasMore {
				w.Flush()
				if page.HasMore {
					color.Yellow("… more rows available (use --all)")
				}
				break
			}
			req.Cursor = page.NextCursor
		}

		color.Green("%d rows in %d page(s)", total, pages)
		return nil
	},
}

// maxCellWidth is counted in runes.
const maxCellWidth = 40

func formatCell(v any) string {
	if v == nil {
		return "-"
	}
	s := fmt.Sprint(v)
	if r := []rune(s); len(r) > maxCellWidth {
		s = string(r[:maxCellWidth-3]) + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(rowsCmd)
	rowsCmd.Flags().Int64Var(&rowsTable, "table", 0, "Table id")
	rowsCmd.Flags().StringVar(&rowsSearch, "search", "", "Substring to match in any field")
	rowsCmd.Flags().IntVar(&rowsPageSize, "page-size", 0, "Rows per page (default from config)")
	rowsCmd.Flags().BoolVar(&rowsAll, "all", false, "Follow cursors until every row is printed")
	rowsCmd.MarkFlagRequired("table")
}
