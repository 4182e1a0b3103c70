package common

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/types"
)

// Catalog column lists, shared by every store.
var (
	BaseColumns   = []string{"id", "name", "created_at", "updated_at"}
	TableColumns  = []string{"id", "base_id", "name", "created_at", "updated_at"}
	ColumnColumns = []string{"id", "table_id", "name", "type", "created_at", "updated_at"}
	ViewColumns   = []string{"id", "table_id", "config", "created_at", "updated_at"}
	RowColumns    = []string{"gb_rows.id", "gb_rows.table_id", "gb_rows.data", "gb_rows.created_at", "gb_rows.updated_at"}
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner is a single row from database/sql or pgx.
type Scanner interface {
	Scan(dest ...any) error
}

func Exec(ctx context.Context, q Execer, b squirrel.Sqlizer) (sql.Result, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build statement: %w", err)
	}
	return q.ExecContext(ctx, sqlStr, args...)
}

// Insert runs an INSERT and returns the driver's LastInsertId.
func Insert(ctx context.Context, q Execer, b squirrel.InsertBuilder) (int64, error) {
	res, err := Exec(ctx, q, b)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// QueryRow builds b and runs it for one row. A build error surfaces on Scan.
func QueryRow(ctx context.Context, q Execer, b squirrel.SelectBuilder) Scanner {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return errRow{fmt.Errorf("failed to build query: %w", err)}
	}
	return q.QueryRowContext(ctx, sqlStr, args...)
}

func Query(ctx context.Context, q Execer, b squirrel.SelectBuilder) (*sql.Rows, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.QueryContext(ctx, sqlStr, args...)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// Affected reports whether a write touched any row.
func Affected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}

func ScanBase(row Scanner) (*types.Base, error) {
	var b types.Base
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func ScanTable(row Scanner) (*types.Table, error) {
	var t types.Table
	if err := row.Scan(&t.ID, &t.BaseID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func ScanColumn(row Scanner) (*types.Column, error) {
	var c types.Column
	var colType string
	if err := row.Scan(&c.ID, &c.TableID, &c.Name, &colType, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Type = types.ColumnType(colType)
	return &c, nil
}

func ScanView(row Scanner) (*types.View, error) {
	var v types.View
	var config []byte
	if err := row.Scan(&v.ID, &v.TableID, &config, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	cfg, err := DecodeViewConfig(config)
	if err != nil {
		return nil, err
	}
	v.Config = cfg
	return &v, nil
}

func ScanRow(row Scanner) (*types.Row, error) {
	var r types.Row
	var data []byte
	if err := row.Scan(&r.ID, &r.TableID, &data, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	attrs, err := DecodeAttributes(data)
	if err != nil {
		return nil, err
	}
	r.Attributes = attrs
	return &r, nil
}

// CollectRows scans and closes rows.
func CollectRows(rows *sql.Rows) ([]types.Row, error) {
	defer rows.Close()
	result := []types.Row{}
	for rows.Next() {
		r, err := ScanRow(rows)
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
