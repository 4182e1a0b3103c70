package database

import (
	"context"

	"github.com/Rana718/gridbase/internal/query"
	"github.com/Rana718/gridbase/internal/types"
)

// Store persists bases, tables, columns, views and rows. Rows keep their
// fields in a JSON attribute bag keyed by column name.
type Store interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Init creates the storage schema if it does not exist.
	Init(ctx context.Context) error
	Dialect() query.Dialect

	// Bases
	CreateBase(ctx context.Context, name string) (*types.Base, error)
	GetBase(ctx context.Context, id int64) (*types.Base, error)
	ListBases(ctx context.Context) ([]types.Base, error)
	RenameBase(ctx context.Context, id int64, name string) (*types.Base, error)
	DeleteBase(ctx context.Context, id int64) error

	// Tables, created together with their columns, initial rows and view
	CreateTable(ctx context.Context, t types.NewTable) (*types.TableWithColumns, error)
	GetTable(ctx context.Context, id int64) (*types.Table, error)
	ListTables(ctx context.Context, baseID int64) ([]types.Table, error)
	CountTables(ctx context.Context, baseID int64) (int, error)

	// Columns
	ListColumns(ctx context.Context, tableID int64) ([]types.Column, error)
	GetColumn(ctx context.Context, tableID, columnID int64) (*types.Column, error)
	AddColumn(ctx context.Context, tableID int64, def types.ColumnDef) (*types.Column, error)

	// Views
	GetView(ctx context.Context, tableID int64) (*types.View, error)
	GetViewByID(ctx context.Context, viewID int64) (*types.View, error)
	SaveViewConfig(ctx context.Context, viewID int64, cfg types.ViewConfig) (*types.View, error)

	// Rows
	InsertRows(ctx context.Context, tableID int64, rows []types.Attributes) ([]types.Row, error)
	GetRow(ctx context.Context, tableID, rowID int64) (*types.Row, error)
	// PatchRow merges patch into the row's attribute bag in one statement.
	PatchRow(ctx context.Context, tableID, rowID int64, patch types.Attributes) (*types.Row, error)
	QueryRows(ctx context.Context, q query.RowQuery) ([]types.Row, error)
}
