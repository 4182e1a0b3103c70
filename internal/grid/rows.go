package grid

import (
	"context"
	"encoding/json"
	"math"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/seeder"
	"github.com/Rana718/gridbase/internal/types"
)

const (
	MinFakeRows = 100
	MaxFakeRows = 1000000
)

// AddRow appends a row with every current column set to null.
func (s *Service) AddRow(ctx context.Context, tableID int64) (*types.Row, error) {
	if _, err := s.store.GetTable(ctx, tableID); err != nil {
		return nil, err
	}
	cols, err := s.store.ListColumns(ctx, tableID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.InsertRows(ctx, tableID, []types.Attributes{emptyAttributes(cols)})
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, errs.Internal("Failed to create row")
	}
	return &rows[0], nil
}

func emptyAttributes(cols []types.Column) types.Attributes {
	attrs := make(types.Attributes, len(cols))
	for _, c := range cols {
		attrs[c.Name] = nil
	}
	return attrs
}

// GenerateFakeRows bulk-loads n generated rows into a table.
func (s *Service) GenerateFakeRows(ctx context.Context, tableID int64, n int) (int, error) {
	if n < MinFakeRows || n > MaxFakeRows {
		return 0, errs.BadRequest("numRows must be between %d and %d", MinFakeRows, MaxFakeRows)
	}
	if _, err := s.store.GetTable(ctx, tableID); err != nil {
		return 0, err
	}
	cols, err := s.store.ListColumns(ctx, tableID)
	if err != nil {
		return 0, err
	}

	inserted, err := s.seeder.Seed(ctx, tableID, cols, seeder.SeedConfig{
		Count: n,
		Batch: s.batchSize,
		Quiet: true,
	})
	if err != nil {
		s.log.Error("fake row generation failed", "table", tableID, "inserted", inserted, "error", err)
		return inserted, err
	}
	s.log.Info("generated fake rows", "table", tableID, "rows", inserted)
	return inserted, nil
}

// UpdateCell merges {column name: value} into one row. Number columns take
// a number; text columns take a string or null.
func (s *Service) UpdateCell(ctx context.Context, tableID, rowID, columnID int64, value any) (*types.Row, error) {
	col, err := s.store.GetColumn(ctx, tableID, columnID)
	if err != nil {
		return nil, err
	}

	stored, err := cellValue(col, value)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetRow(ctx, tableID, rowID); err != nil {
		return nil, err
	}
	return s.store.PatchRow(ctx, tableID, rowID, types.Attributes{col.Name: stored})
}

func cellValue(col *types.Column, value any) (any, error) {
	switch col.Type {
	case types.ColumnNumber:
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		case json.Number:
			parsed, err := v.Float64()
			if err != nil {
				return nil, errs.BadRequest("Value for column %q must be a number", col.Name)
			}
			f = parsed
		default:
			return nil, errs.BadRequest("Value for column %q must be a number", col.Name)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errs.BadRequest("Value for column %q must be a finite number", col.Name)
		}
		return f, nil
	case types.ColumnText:
		switch v := value.(type) {
		case nil:
			return nil, nil
		case string:
			return v, nil
		}
		return nil, errs.BadRequest("Value for column %q must be a string or null", col.Name)
	}
	return nil, errs.Internal("column %q has unknown type %q", col.Name, col.Type)
}

// ImportRows validates each attribute bag against the table's columns and
// inserts them in one batch. Keys that name no column are rejected.
func (s *Service) ImportRows(ctx context.Context, tableID int64, records []types.Attributes) ([]types.Row, error) {
	cols, err := s.store.ListColumns(ctx, tableID)
	if err != nil {
		return nil, err
	}
	defs := make([]types.ColumnDef, len(cols))
	for i, c := range cols {
		defs[i] = types.ColumnDef{Name: c.Name, Type: c.Type}
	}
	clean, err := PrepareRows(defs, records)
	if err != nil {
		return nil, err
	}
	return s.store.InsertRows(ctx, tableID, clean)
}

// PrepareRows checks records against column definitions without touching
// the store, returning the attribute bags as they would be stored.
func PrepareRows(defs []types.ColumnDef, records []types.Attributes) ([]types.Attributes, error) {
	byName := make(map[string]*types.Column, len(defs))
	for _, def := range defs {
		byName[def.Name] = &types.Column{Name: def.Name, Type: def.Type}
	}

	clean := make([]types.Attributes, len(records))
	for i, rec := range records {
		attrs := make(types.Attributes, len(rec))
		for key, value := range rec {
			col, ok := byName[key]
			if !ok {
				return nil, errs.BadRequest("row %d: unknown column %q", i+1, key)
			}
			if value == nil {
				attrs[key] = nil
				continue
			}
			v, err := cellValue(col, value)
			if err != nil {
				return nil, errs.BadRequest("row %d: %s", i+1, errs.Message(err))
			}
			attrs[key] = v
		}
		clean[i] = attrs
	}
	return clean, nil
}
