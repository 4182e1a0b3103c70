package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/database/common"
	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/query"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/jackc/pgx/v5"
)

var rowColumns = []string{
	"gb_rows.id", "gb_rows.table_id", "gb_rows.data", "gb_rows.created_at", "gb_rows.updated_at",
}

const rowReturning = "RETURNING id, table_id, data, created_at, updated_at"

func scanRow(row pgx.Row) (*types.Row, error) {
	var r types.Row
	var data []byte
	if err := row.Scan(&r.ID, &r.TableID, &data, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	attrs, err := common.DecodeAttributes(data)
	if err != nil {
		return nil, err
	}
	r.Attributes = attrs
	return &r, nil
}

func collectRows(rows pgx.Rows) ([]types.Row, error) {
	defer rows.Close()
	result := []types.Row{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

func (p *Adapter) InsertRows(ctx context.Context, tableID int64, rows []types.Attributes) ([]types.Row, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted, err := p.insertRows(ctx, tx, tableID, rows)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rows: %w", err)
	}
	return inserted, nil
}

func (p *Adapter) insertRows(ctx context.Context, q querier, tableID int64, rows []types.Attributes) ([]types.Row, error) {
	inserted := make([]types.Row, 0, len(rows))
	for _, chunk := range common.Chunks(len(rows), common.InsertBatchSize) {
		ib := p.qb.Insert("gb_rows").Columns("table_id", "data")
		for _, attrs := range rows[chunk[0]:chunk[1]] {
			data, err := common.EncodeAttributes(attrs)
			if err != nil {
				return nil, err
			}
			ib = ib.Values(tableID, squirrel.Expr("?::jsonb", data))
		}
		sqlStr, args, err := ib.Suffix(rowReturning).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build insert: %w", err)
		}
		result, err := q.Query(ctx, sqlStr, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to insert rows: %w", err)
		}
		batch, err := collectRows(result)
		if err != nil {
			return nil, err
		}
		if len(batch) != chunk[1]-chunk[0] {
			return nil, errs.Internal("inserted %d rows, expected %d", len(batch), chunk[1]-chunk[0])
		}
		inserted = append(inserted, batch...)
	}
	return inserted, nil
}

func (p *Adapter) GetRow(ctx context.Context, tableID, rowID int64) (*types.Row, error) {
	sqlStr, args, err := p.qb.Select(rowColumns...).From("gb_rows").
		Where(squirrel.Eq{"gb_rows.id": rowID, "gb_rows.table_id": tableID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	r, err := scanRow(p.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, notFound(err, "row", rowID)
	}
	return r, nil
}

func (p *Adapter) PatchRow(ctx context.Context, tableID, rowID int64, patch types.Attributes) (*types.Row, error) {
	data, err := common.EncodeAttributes(patch)
	if err != nil {
		return nil, err
	}
	r, err := scanRow(p.pool.QueryRow(ctx, `
		UPDATE gb_rows
		SET data = COALESCE(data, '{}'::jsonb) || $1::jsonb, updated_at = NOW()
		WHERE id = $2 AND table_id = $3
		`+rowReturning, data, rowID, tableID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.Internal("Failed to update cell")
		}
		return nil, fmt.Errorf("failed to update row %d: %w", rowID, err)
	}
	return r, nil
}

func (p *Adapter) QueryRows(ctx context.Context, q query.RowQuery) ([]types.Row, error) {
	sb := p.qb.Select(rowColumns...).From("gb_rows").
		Where(squirrel.Eq{"gb_rows.table_id": q.TableID})
	if q.Where != nil {
		sb = sb.Where(q.Where)
	}
	for _, clause := range q.OrderBy {
		sb = sb.OrderByClause(clause)
	}
	if q.Limit > 0 {
		sb = sb.Limit(q.Limit)
	}

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build row query: %w", err)
	}
	rows, err := p.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	return collectRows(rows)
}
