package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Rana718/gridbase/internal/grid"
	"github.com/Rana718/gridbase/internal/types"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Document is the JSON export layout.
type Document struct {
	Timestamp string             `json:"timestamp"`
	Table     types.Table        `json:"table"`
	Columns   []string           `json:"columns"`
	Rows      []types.Attributes `json:"rows"`
}

// PerformExport writes every row of a table, as its view sorts and filters
// them, to a timestamped file under exportPath. Hidden columns are left out.
func PerformExport(ctx context.Context, svc *grid.Service, tableID int64, exportPath, format string) (string, int, error) {
	if format != FormatJSON && format != FormatCSV && format != "" {
		return "", 0, fmt.Errorf("unsupported export format %q (use json or csv)", format)
	}
	table, err := svc.GetTable(ctx, tableID)
	if err != nil {
		return "", 0, err
	}
	cols := visibleColumns(table)

	doc := Document{
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Table:     table.Table,
		Columns:   make([]string, len(cols)),
		Rows:      []types.Attributes{},
	}
	for i, c := range cols {
		doc.Columns[i] = c.Name
	}

	// The table is walked in pages of the configured maximum size.
	req := types.FetchRowsRequest{TableID: tableID, PageSize: svc.MaxPageSize()}
	for {
		page, err := svc.FetchRows(ctx, req)
		if err != nil {
			return "", 0, err
		}
		for _, row := range page.Rows {
			attrs := make(types.Attributes, len(cols)+1)
			attrs["id"] = row.ID
			for _, c := range cols {
				attrs[c.Name] = row.Attributes[c.Name]
			}
			doc.Rows = append(doc.Rows, attrs)
		}
		if !page.HasMore {
			break
		}
		req.Cursor = page.NextCursor
	}

	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create export directory: %w", err)
	}

	var path string
	switch format {
	case FormatCSV:
		path, err = exportToCSV(doc, exportPath)
	default:
		path, err = exportToJSON(doc, exportPath)
	}
	if err != nil {
		return "", 0, err
	}
	return path, len(doc.Rows), nil
}

func visibleColumns(table *types.TableWithColumns) []types.Column {
	hidden := map[int64]bool{}
	if table.View != nil {
		for _, id := range table.View.Config.HiddenColumns {
			hidden[id] = true
		}
	}
	var cols []types.Column
	for _, c := range table.Columns {
		if !hidden[c.ID] {
			cols = append(cols, c)
		}
	}
	return cols
}

func fileName(doc Document, ext string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return fmt.Sprintf("table_%d_%s.%s", doc.Table.ID, timestamp, ext)
}

func exportToJSON(doc Document, exportPath string) (string, error) {
	filePath := filepath.Join(exportPath, fileName(doc, "json"))

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToCSV(doc Document, exportPath string) (string, error) {
	filePath := filepath.Join(exportPath, fileName(doc, "csv"))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(append([]string{"id"}, doc.Columns...)); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range doc.Rows {
		record := make([]string, 0, len(doc.Columns)+1)
		record = append(record, fmt.Sprint(row["id"]))
		for _, name := range doc.Columns {
			record = append(record, csvValue(row[name]))
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV file: %w", err)
	}
	return filePath, nil
}

func csvValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
