package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/database/common"
	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/query"
	"github.com/Rana718/gridbase/internal/types"
)

func (m *Adapter) InsertRows(ctx context.Context, tableID int64, rows []types.Attributes) ([]types.Row, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted, err := m.insertRows(ctx, tx, tableID, rows)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rows: %w", err)
	}
	return inserted, nil
}

// insertRows writes each chunk as one multi-row INSERT. InnoDB hands a
// simple insert its auto-increment ids as one consecutive block, and
// LastInsertId is the first of them.
func (m *Adapter) insertRows(ctx context.Context, tx *sql.Tx, tableID int64, rows []types.Attributes) ([]types.Row, error) {
	inserted := make([]types.Row, 0, len(rows))
	for _, chunk := range common.Chunks(len(rows), common.InsertBatchSize) {
		ib := m.qb.Insert("gb_rows").Columns("table_id", "data")
		for _, attrs := range rows[chunk[0]:chunk[1]] {
			data, err := common.EncodeAttributes(attrs)
			if err != nil {
				return nil, err
			}
			ib = ib.Values(tableID, data)
		}
		firstID, err := common.Insert(ctx, tx, ib)
		if err != nil {
			return nil, fmt.Errorf("failed to insert rows: %w", err)
		}
		n := int64(chunk[1] - chunk[0])

		result, err := common.Query(ctx, tx, m.qb.Select(common.RowColumns...).From("gb_rows").
			Where(squirrel.Eq{"gb_rows.table_id": tableID}).
			Where(squirrel.GtOrEq{"gb_rows.id": firstID}).
			Where(squirrel.Lt{"gb_rows.id": firstID + n}).
			OrderBy("gb_rows.id ASC"))
		if err != nil {
			return nil, fmt.Errorf("failed to read inserted rows: %w", err)
		}
		batch, err := common.CollectRows(result)
		if err != nil {
			return nil, err
		}
		if int64(len(batch)) != n {
			return nil, errs.Internal("inserted %d rows, expected %d", len(batch), n)
		}
		inserted = append(inserted, batch...)
	}
	return inserted, nil
}

func (m *Adapter) GetRow(ctx context.Context, tableID, rowID int64) (*types.Row, error) {
	r, err := common.ScanRow(common.QueryRow(ctx, m.db, m.qb.Select(common.RowColumns...).From("gb_rows").
		Where(squirrel.Eq{"gb_rows.id": rowID, "gb_rows.table_id": tableID})))
	if err != nil {
		return nil, notFound(err, "row", rowID)
	}
	return r, nil
}

// PatchRow applies patch with JSON_MERGE_PATCH, so a null value removes the key.
func (m *Adapter) PatchRow(ctx context.Context, tableID, rowID int64, patch types.Attributes) (*types.Row, error) {
	data, err := common.EncodeAttributes(patch)
	if err != nil {
		return nil, err
	}
	res, err := common.Exec(ctx, m.db, m.qb.Update("gb_rows").
		Set("data", squirrel.Expr("JSON_MERGE_PATCH(data, ?)", data)).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": rowID, "table_id": tableID}))
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "Failed to update cell")
	}
	if !common.Affected(res) {
		return nil, errs.Internal("Failed to update cell")
	}
	return m.GetRow(ctx, tableID, rowID)
}

func (m *Adapter) QueryRows(ctx context.Context, q query.RowQuery) ([]types.Row, error) {
	sb := m.qb.Select(common.RowColumns...).From("gb_rows").
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

	rows, err := common.Query(ctx, m.db, sb)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	return common.CollectRows(rows)
}
