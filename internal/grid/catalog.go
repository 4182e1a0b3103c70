package grid

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/types"
)

const (
	minBaseNameLength = 6
	defaultEmptyRows  = 4
)

var defaultColumns = []types.ColumnDef{
	{Name: "Name", Type: types.ColumnText},
	{Name: "Notes", Type: types.ColumnText},
	{Name: "Assignee", Type: types.ColumnText},
	{Name: "Status", Type: types.ColumnText},
}

func validateBaseName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minBaseNameLength {
		return "", errs.BadRequest("Base name must be at least %d characters", minBaseNameLength)
	}
	return name, nil
}

func (s *Service) CreateBase(ctx context.Context, name string) (*types.Base, error) {
	name, err := validateBaseName(name)
	if err != nil {
		return nil, err
	}
	return s.store.CreateBase(ctx, name)
}

func (s *Service) GetBase(ctx context.Context, id int64) (*types.Base, error) {
	return s.store.GetBase(ctx, id)
}

func (s *Service) ListBases(ctx context.Context) ([]types.Base, error) {
	return s.store.ListBases(ctx)
}

func (s *Service) RenameBase(ctx context.Context, id int64, name string) (*types.Base, error) {
	name, err := validateBaseName(name)
	if err != nil {
		return nil, err
	}
	return s.store.RenameBase(ctx, id, name)
}

func (s *Service) DeleteBase(ctx context.Context, id int64) error {
	return s.store.DeleteBase(ctx, id)
}

func (s *Service) ListTables(ctx context.Context, baseID int64) ([]types.Table, error) {
	if _, err := s.store.GetBase(ctx, baseID); err != nil {
		return nil, err
	}
	return s.store.ListTables(ctx, baseID)
}

// CreateTable adds a table to a base. An empty name becomes "Table N" and
// no columns means the default Name, Notes, Assignee and Status columns
// with a few empty rows.
func (s *Service) CreateTable(ctx context.Context, baseID int64, name string, columns []types.ColumnDef) (*types.TableWithColumns, error) {
	if len(columns) == 0 {
		rows := make([]types.Attributes, defaultEmptyRows)
		for i := range rows {
			rows[i] = types.Attributes{}
		}
		return s.createTable(ctx, baseID, name, defaultColumns, rows)
	}
	return s.createTable(ctx, baseID, name, columns, nil)
}

// CreateTableWithRows creates a table and its initial rows in one store
// transaction. Every record is checked before anything is written.
func (s *Service) CreateTableWithRows(ctx context.Context, baseID int64, name string, columns []types.ColumnDef, records []types.Attributes) (*types.TableWithColumns, error) {
	if len(columns) == 0 {
		return nil, errs.BadRequest("At least one column is required")
	}
	return s.createTable(ctx, baseID, name, columns, records)
}

func (s *Service) createTable(ctx context.Context, baseID int64, name string, columns []types.ColumnDef, records []types.Attributes) (*types.TableWithColumns, error) {
	defs, err := NormalizeColumns(columns)
	if err != nil {
		return nil, err
	}
	rows, err := PrepareRows(defs, records)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetBase(ctx, baseID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		count, err := s.store.CountTables(ctx, baseID)
		if err != nil {
			return nil, err
		}
		name = fmt.Sprintf("Table %d", count+1)
	}

	table, err := s.store.CreateTable(ctx, types.NewTable{BaseID: baseID, Name: name, Columns: defs, Rows: rows})
	if err != nil {
		return nil, err
	}
	s.log.Info("created table", "base", baseID, "table", table.ID, "columns", len(table.Columns), "rows", len(table.Rows))
	return table, nil
}

// NormalizeColumns validates column definitions, defaulting the type to
// text. Names must be unique within the table.
func NormalizeColumns(columns []types.ColumnDef) ([]types.ColumnDef, error) {
	defs := make([]types.ColumnDef, len(columns))
	seen := make(map[string]bool, len(columns))
	for i, def := range columns {
		def, err := validateColumnDef(def)
		if err != nil {
			return nil, err
		}
		if seen[def.Name] {
			return nil, errs.BadRequest("Please create a new unique column")
		}
		seen[def.Name] = true
		defs[i] = def
	}
	return defs, nil
}

// GetTable returns a table with its columns and view.
func (s *Service) GetTable(ctx context.Context, id int64) (*types.TableWithColumns, error) {
	table, err := s.store.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	cols, err := s.store.ListColumns(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &types.TableWithColumns{Table: *table, Columns: cols}
	view, err := s.store.GetView(ctx, id)
	switch {
	case err == nil:
		result.View = view
	case !errs.IsNotFound(err):
		return nil, err
	}
	return result, nil
}

func (s *Service) AddColumn(ctx context.Context, tableID int64, def types.ColumnDef) (*types.Column, error) {
	def, err := validateColumnDef(def)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetTable(ctx, tableID); err != nil {
		return nil, err
	}
	return s.store.AddColumn(ctx, tableID, def)
}

func validateColumnDef(def types.ColumnDef) (types.ColumnDef, error) {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return def, errs.BadRequest("Column name is required")
	}
	if def.Type == "" {
		def.Type = types.ColumnText
	}
	if !def.Type.Valid() {
		return def, errs.BadRequest("Column type must be text or number")
	}
	return def, nil
}
