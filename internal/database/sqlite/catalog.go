package sqlite

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/database/common"
	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/types"
)

var now = squirrel.Expr("CURRENT_TIMESTAMP")

func (s *Adapter) CreateBase(ctx context.Context, name string) (*types.Base, error) {
	id, err := common.Insert(ctx, s.db, s.qb.Insert("gb_bases").Columns("name").Values(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create base: %w", err)
	}
	return s.GetBase(ctx, id)
}

func (s *Adapter) GetBase(ctx context.Context, id int64) (*types.Base, error) {
	b, err := common.ScanBase(common.QueryRow(ctx, s.db,
		s.qb.Select(common.BaseColumns...).From("gb_bases").Where(squirrel.Eq{"id": id})))
	if err != nil {
		return nil, notFound(err, "base", id)
	}
	return b, nil
}

func (s *Adapter) ListBases(ctx context.Context) ([]types.Base, error) {
	rows, err := common.Query(ctx, s.db,
		s.qb.Select(common.BaseColumns...).From("gb_bases").OrderBy("updated_at DESC", "id DESC"))
	if err != nil {
		return nil, fmt.Errorf("failed to list bases: %w", err)
	}
	defer rows.Close()

	bases := []types.Base{}
	for rows.Next() {
		b, err := common.ScanBase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan base: %w", err)
		}
		bases = append(bases, *b)
	}
	return bases, rows.Err()
}

func (s *Adapter) RenameBase(ctx context.Context, id int64, name string) (*types.Base, error) {
	res, err := common.Exec(ctx, s.db, s.qb.Update("gb_bases").
		Set("name", name).Set("updated_at", now).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("failed to rename base %d: %w", id, err)
	}
	if !common.Affected(res) {
		return nil, errs.NotFound("base %d not found", id)
	}
	return s.GetBase(ctx, id)
}

func (s *Adapter) DeleteBase(ctx context.Context, id int64) error {
	res, err := common.Exec(ctx, s.db, s.qb.Delete("gb_bases").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to delete base %d: %w", id, err)
	}
	if !common.Affected(res) {
		return errs.NotFound("base %d not found", id)
	}
	return nil
}

func (s *Adapter) CreateTable(ctx context.Context, nt types.NewTable) (*types.TableWithColumns, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tableID, err := common.Insert(ctx, tx,
		s.qb.Insert("gb_tables").Columns("base_id", "name").Values(nt.BaseID, nt.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	table, err := common.ScanTable(common.QueryRow(ctx, tx,
		s.qb.Select(common.TableColumns...).From("gb_tables").Where(squirrel.Eq{"id": tableID})))
	if err != nil {
		return nil, fmt.Errorf("failed to load new table: %w", err)
	}

	result := &types.TableWithColumns{Table: *table, Columns: []types.Column{}}
	for _, def := range nt.Columns {
		col, err := s.insertColumn(ctx, tx, tableID, def)
		if err != nil {
			return nil, err
		}
		result.Columns = append(result.Columns, *col)
	}

	rows, err := s.insertRows(ctx, tx, tableID, nt.Rows)
	if err != nil {
		return nil, err
	}
	result.Rows = rows

	viewID, err := common.Insert(ctx, tx,
		s.qb.Insert("gb_views").Columns("table_id", "config").Values(tableID, "{}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create view: %w", err)
	}
	view, err := common.ScanView(common.QueryRow(ctx, tx,
		s.qb.Select(common.ViewColumns...).From("gb_views").Where(squirrel.Eq{"id": viewID})))
	if err != nil {
		return nil, fmt.Errorf("failed to load new view: %w", err)
	}
	result.View = view

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table creation: %w", err)
	}
	return result, nil
}

func (s *Adapter) GetTable(ctx context.Context, id int64) (*types.Table, error) {
	t, err := common.ScanTable(common.QueryRow(ctx, s.db,
		s.qb.Select(common.TableColumns...).From("gb_tables").Where(squirrel.Eq{"id": id})))
	if err != nil {
		return nil, notFound(err, "table", id)
	}
	return t, nil
}

func (s *Adapter) ListTables(ctx context.Context, baseID int64) ([]types.Table, error) {
	rows, err := common.Query(ctx, s.db, s.qb.Select(common.TableColumns...).From("gb_tables").
		Where(squirrel.Eq{"base_id": baseID}).OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := []types.Table{}
	for rows.Next() {
		t, err := common.ScanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, *t)
	}
	return tables, rows.Err()
}

func (s *Adapter) CountTables(ctx context.Context, baseID int64) (int, error) {
	var count int
	if err := common.QueryRow(ctx, s.db, s.qb.Select("COUNT(*)").From("gb_tables").
		Where(squirrel.Eq{"base_id": baseID})).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tables: %w", err)
	}
	return count, nil
}

func (s *Adapter) ListColumns(ctx context.Context, tableID int64) ([]types.Column, error) {
	rows, err := common.Query(ctx, s.db, s.qb.Select(common.ColumnColumns...).From("gb_columns").
		Where(squirrel.Eq{"table_id": tableID}).OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	cols := []types.Column{}
	for rows.Next() {
		c, err := common.ScanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		cols = append(cols, *c)
	}
	return cols, rows.Err()
}

func (s *Adapter) GetColumn(ctx context.Context, tableID, columnID int64) (*types.Column, error) {
	c, err := common.ScanColumn(common.QueryRow(ctx, s.db, s.qb.Select(common.ColumnColumns...).
		From("gb_columns").Where(squirrel.Eq{"table_id": tableID, "id": columnID})))
	if err != nil {
		return nil, notFound(err, "column", columnID)
	}
	return c, nil
}

func (s *Adapter) AddColumn(ctx context.Context, tableID int64, def types.ColumnDef) (*types.Column, error) {
	return s.insertColumn(ctx, s.db, tableID, def)
}

func (s *Adapter) insertColumn(ctx context.Context, q common.Execer, tableID int64, def types.ColumnDef) (*types.Column, error) {
	id, err := common.Insert(ctx, q, s.qb.Insert("gb_columns").
		Columns("table_id", "name", "type").Values(tableID, def.Name, string(def.Type)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.BadRequest("Please create a new unique column")
		}
		return nil, fmt.Errorf("failed to add column %q: %w", def.Name, err)
	}
	c, err := common.ScanColumn(common.QueryRow(ctx, q,
		s.qb.Select(common.ColumnColumns...).From("gb_columns").Where(squirrel.Eq{"id": id})))
	if err != nil {
		return nil, fmt.Errorf("failed to load column %d: %w", id, err)
	}
	return c, nil
}

func (s *Adapter) GetView(ctx context.Context, tableID int64) (*types.View, error) {
	return s.getView(ctx, squirrel.Eq{"table_id": tableID}, "view for table", tableID)
}

func (s *Adapter) GetViewByID(ctx context.Context, viewID int64) (*types.View, error) {
	return s.getView(ctx, squirrel.Eq{"id": viewID}, "view", viewID)
}

func (s *Adapter) getView(ctx context.Context, where squirrel.Eq, what string, id int64) (*types.View, error) {
	v, err := common.ScanView(common.QueryRow(ctx, s.db,
		s.qb.Select(common.ViewColumns...).From("gb_views").Where(where)))
	if err != nil {
		return nil, notFound(err, what, id)
	}
	return v, nil
}

func (s *Adapter) SaveViewConfig(ctx context.Context, viewID int64, cfg types.ViewConfig) (*types.View, error) {
	config, err := common.EncodeViewConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := common.Exec(ctx, s.db, s.qb.Update("gb_views").
		Set("config", config).Set("updated_at", now).Where(squirrel.Eq{"id": viewID}))
	if err != nil {
		return nil, fmt.Errorf("failed to save view %d: %w", viewID, err)
	}
	if !common.Affected(res) {
		return nil, errs.NotFound("view %d not found", viewID)
	}
	return s.GetViewByID(ctx, viewID)
}
