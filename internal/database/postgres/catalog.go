package postgres

import (
	"context"
	"fmt"

	"github.com/Rana718/gridbase/internal/database/common"
	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/jackc/pgx/v5"
)

const (
	baseColumns   = "id, name, created_at, updated_at"
	tableColumns  = "id, base_id, name, created_at, updated_at"
	columnColumns = "id, table_id, name, type, created_at, updated_at"
	viewColumns   = "id, table_id, config, created_at, updated_at"
)

func scanBase(row pgx.Row) (*types.Base, error) {
	var b types.Base
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanTable(row pgx.Row) (*types.Table, error) {
	var t types.Table
	if err := row.Scan(&t.ID, &t.BaseID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanColumn(row pgx.Row) (*types.Column, error) {
	var c types.Column
	var colType string
	if err := row.Scan(&c.ID, &c.TableID, &c.Name, &colType, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Type = types.ColumnType(colType)
	return &c, nil
}

func scanView(row pgx.Row) (*types.View, error) {
	var v types.View
	var config []byte
	if err := row.Scan(&v.ID, &v.TableID, &config, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	cfg, err := common.DecodeViewConfig(config)
	if err != nil {
		return nil, err
	}
	v.Config = cfg
	return &v, nil
}

func (p *Adapter) CreateBase(ctx context.Context, name string) (*types.Base, error) {
	b, err := scanBase(p.pool.QueryRow(ctx,
		`INSERT INTO gb_bases (name) VALUES ($1) RETURNING `+baseColumns, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create base: %w", err)
	}
	return b, nil
}

func (p *Adapter) GetBase(ctx context.Context, id int64) (*types.Base, error) {
	b, err := scanBase(p.pool.QueryRow(ctx,
		`SELECT `+baseColumns+` FROM gb_bases WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "base", id)
	}
	return b, nil
}

func (p *Adapter) ListBases(ctx context.Context) ([]types.Base, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+baseColumns+` FROM gb_bases ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bases: %w", err)
	}
	defer rows.Close()

	bases := []types.Base{}
	for rows.Next() {
		b, err := scanBase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan base: %w", err)
		}
		bases = append(bases, *b)
	}
	return bases, rows.Err()
}

func (p *Adapter) RenameBase(ctx context.Context, id int64, name string) (*types.Base, error) {
	b, err := scanBase(p.pool.QueryRow(ctx,
		`UPDATE gb_bases SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING `+baseColumns, name, id))
	if err != nil {
		return nil, notFound(err, "base", id)
	}
	return b, nil
}

func (p *Adapter) DeleteBase(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM gb_bases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete base %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("base %d not found", id)
	}
	return nil
}

func (p *Adapter) CreateTable(ctx context.Context, nt types.NewTable) (*types.TableWithColumns, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	table, err := scanTable(tx.QueryRow(ctx,
		`INSERT INTO gb_tables (base_id, name) VALUES ($1, $2) RETURNING `+tableColumns, nt.BaseID, nt.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	result := &types.TableWithColumns{Table: *table, Columns: []types.Column{}}
	for _, def := range nt.Columns {
		col, err := insertColumn(ctx, tx, table.ID, def)
		if err != nil {
			return nil, err
		}
		result.Columns = append(result.Columns, *col)
	}

	rows, err := p.insertRows(ctx, tx, table.ID, nt.Rows)
	if err != nil {
		return nil, err
	}
	result.Rows = rows

	view, err := scanView(tx.QueryRow(ctx,
		`INSERT INTO gb_views (table_id, config) VALUES ($1, '{}') RETURNING `+viewColumns, table.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to create view: %w", err)
	}
	result.View = view

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit table creation: %w", err)
	}
	return result, nil
}

func (p *Adapter) GetTable(ctx context.Context, id int64) (*types.Table, error) {
	t, err := scanTable(p.pool.QueryRow(ctx,
		`SELECT `+tableColumns+` FROM gb_tables WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "table", id)
	}
	return t, nil
}

func (p *Adapter) ListTables(ctx context.Context, baseID int64) ([]types.Table, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+tableColumns+` FROM gb_tables WHERE base_id = $1 ORDER BY id`, baseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := []types.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, *t)
	}
	return tables, rows.Err()
}

func (p *Adapter) CountTables(ctx context.Context, baseID int64) (int, error) {
	var count int
	if err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM gb_tables WHERE base_id = $1`, baseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tables: %w", err)
	}
	return count, nil
}

func (p *Adapter) ListColumns(ctx context.Context, tableID int64) ([]types.Column, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+columnColumns+` FROM gb_columns WHERE table_id = $1 ORDER BY id`, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	cols := []types.Column{}
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		cols = append(cols, *c)
	}
	return cols, rows.Err()
}

func (p *Adapter) GetColumn(ctx context.Context, tableID, columnID int64) (*types.Column, error) {
	c, err := scanColumn(p.pool.QueryRow(ctx,
		`SELECT `+columnColumns+` FROM gb_columns WHERE table_id = $1 AND id = $2`, tableID, columnID))
	if err != nil {
		return nil, notFound(err, "column", columnID)
	}
	return c, nil
}

func (p *Adapter) AddColumn(ctx context.Context, tableID int64, def types.ColumnDef) (*types.Column, error) {
	return insertColumn(ctx, p.pool, tableID, def)
}

func insertColumn(ctx context.Context, q querier, tableID int64, def types.ColumnDef) (*types.Column, error) {
	c, err := scanColumn(q.QueryRow(ctx,
		`INSERT INTO gb_columns (table_id, name, type) VALUES ($1, $2, $3) RETURNING `+columnColumns,
		tableID, def.Name, string(def.Type)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.BadRequest("Please create a new unique column")
		}
		return nil, fmt.Errorf("failed to add column %q: %w", def.Name, err)
	}
	return c, nil
}

func (p *Adapter) GetView(ctx context.Context, tableID int64) (*types.View, error) {
	v, err := scanView(p.pool.QueryRow(ctx,
		`SELECT `+viewColumns+` FROM gb_views WHERE table_id = $1`, tableID))
	if err != nil {
		return nil, notFound(err, "view for table", tableID)
	}
	return v, nil
}

func (p *Adapter) GetViewByID(ctx context.Context, viewID int64) (*types.View, error) {
	v, err := scanView(p.pool.QueryRow(ctx,
		`SELECT `+viewColumns+` FROM gb_views WHERE id = $1`, viewID))
	if err != nil {
		return nil, notFound(err, "view", viewID)
	}
	return v, nil
}

func (p *Adapter) SaveViewConfig(ctx context.Context, viewID int64, cfg types.ViewConfig) (*types.View, error) {
	config, err := common.EncodeViewConfig(cfg)
	if err != nil {
		return nil, err
	}
	v, err := scanView(p.pool.QueryRow(ctx,
		`UPDATE gb_views SET config = $1::jsonb, updated_at = NOW() WHERE id = $2 RETURNING `+viewColumns,
		config, viewID))
	if err != nil {
		return nil, notFound(err, "view", viewID)
	}
	return v, nil
}
