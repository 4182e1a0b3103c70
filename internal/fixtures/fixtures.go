// Package fixtures loads a table, its rows and its view from a YAML file.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/grid"
	"github.com/Rana718/gridbase/internal/types"
	"gopkg.in/yaml.v3"
)

// Fixture references columns by name; ids are assigned on import.
type Fixture struct {
	Base    string             `yaml:"base"`
	BaseID  int64              `yaml:"baseId"`
	Table   string             `yaml:"table"`
	Columns []types.ColumnDef  `yaml:"columns"`
	Rows    []types.Attributes `yaml:"rows"`
	View    *View              `yaml:"view"`
}

type View struct {
	Sort    []Sort   `yaml:"sort"`
	Filters []Filter `yaml:"filters"`
	Hidden  []string `yaml:"hidden"`
}

type Sort struct {
	Column    string              `yaml:"column"`
	Direction types.SortDirection `yaml:"direction"`
}

type Filter struct {
	Column   string `yaml:"column"`
	Operator string `yaml:"operator"`
	Value    any    `yaml:"value"`
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if len(f.Columns) == 0 {
		return nil, fmt.Errorf("fixture must declare at least one column")
	}
	if f.BaseID == 0 && f.Base == "" {
		return nil, fmt.Errorf("fixture must name a base or give a baseId")
	}
	return &f, nil
}

type Result struct {
	Base  *types.Base
	Table *types.TableWithColumns
	Rows  int
}

// Import creates the fixture's table with its rows and stores its view.
// A named base is created; a baseId must already exist. The fixture is
// checked in full first, and a base created here is removed again if a
// later step fails.
func Import(ctx context.Context, svc *grid.Service, f *Fixture) (res *Result, err error) {
	cols, err := grid.NormalizeColumns(f.Columns)
	if err != nil {
		return nil, err
	}
	if _, err := grid.PrepareRows(cols, f.Rows); err != nil {
		return nil, err
	}
	if f.View != nil {
		if err := f.View.check(cols); err != nil {
			return nil, err
		}
	}

	var base *types.Base
	if f.BaseID != 0 {
		base, err = svc.GetBase(ctx, f.BaseID)
		if err != nil {
			return nil, err
		}
	} else {
		base, err = svc.CreateBase(ctx, f.Base)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				if derr := svc.DeleteBase(context.WithoutCancel(ctx), base.ID); derr != nil {
					err = errors.Join(err, derr)
				}
			}
		}()
	}

	table, err := svc.CreateTableWithRows(ctx, base.ID, f.Table, cols, f.Rows)
	if err != nil {
		return nil, err
	}

	if f.View != nil && table.View != nil {
		cfg, err := f.View.resolve(table.Columns)
		if err != nil {
			return nil, err
		}
		view, err := svc.UpdateViewConfig(ctx, table.View.ID, types.ViewConfigPatch{
			Sort:          &cfg.Sort,
			Filters:       &cfg.Filters,
			HiddenColumns: &cfg.HiddenColumns,
		}, true)
		if err != nil {
			return nil, err
		}
		table.View = view
	}

	return &Result{Base: base, Table: table, Rows: len(table.Rows)}, nil
}

// check resolves the view against columns numbered in declaration order, as
// they will be once created, and applies the strict view rules.
func (v *View) check(defs []types.ColumnDef) error {
	cols := make([]types.Column, len(defs))
	for i, def := range defs {
		cols[i] = types.Column{ID: int64(i + 1), Name: def.Name, Type: def.Type}
	}
	cfg, err := v.resolve(cols)
	if err != nil {
		return err
	}
	return grid.CheckViewConfig(cfg, cols)
}

func (v *View) resolve(cols []types.Column) (types.ViewConfig, error) {
	ids := make(map[string]int64, len(cols))
	for _, c := range cols {
		ids[c.Name] = c.ID
	}
	lookup := func(name string) (int64, error) {
		id, ok := ids[name]
		if !ok {
			return 0, errs.BadRequest("view references unknown column %q", name)
		}
		return id, nil
	}

	cfg := types.ViewConfig{
		Sort:          []types.SortSpec{},
		Filters:       []types.FilterSpec{},
		HiddenColumns: []int64{},
	}
	for _, s := range v.Sort {
		id, err := lookup(s.Column)
		if err != nil {
			return cfg, err
		}
		dir := s.Direction
		if dir == "" {
			dir = types.Ascending
		}
		cfg.Sort = append(cfg.Sort, types.SortSpec{ColumnID: id, Direction: dir})
	}
	for _, f := range v.Filters {
		id, err := lookup(f.Column)
		if err != nil {
			return cfg, err
		}
		cfg.Filters = append(cfg.Filters, types.FilterSpec{ColumnID: id, Operator: f.Operator, Value: f.Value})
	}
	for _, name := range v.Hidden {
		id, err := lookup(name)
		if err != nil {
			return cfg, err
		}
		cfg.HiddenColumns = append(cfg.HiddenColumns, id)
	}
	return cfg, nil
}
