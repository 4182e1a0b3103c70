package grid

import (
	"context"
	"testing"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/stretchr/testify/require"
)

func TestBases(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBase(ctx, "  abc  ")
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))

	first, err := svc.CreateBase(ctx, "Marketing")
	require.NoError(t, err)
	second, err := svc.CreateBase(ctx, "Engineering")
	require.NoError(t, err)

	bases, err := svc.ListBases(ctx)
	require.NoError(t, err)
	require.Len(t, bases, 2)
	require.Equal(t, second.ID, bases[0].ID)

	renamed, err := svc.RenameBase(ctx, first.ID, "Growth team")
	require.NoError(t, err)
	require.Equal(t, "Growth team", renamed.Name)

	require.NoError(t, svc.DeleteBase(ctx, first.ID))
	_, err = svc.GetBase(ctx, first.ID)
	require.True(t, errs.IsNotFound(err))
	require.True(t, errs.IsNotFound(svc.DeleteBase(ctx, first.ID)))
}

func TestCreateTableDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	base, err := svc.CreateBase(ctx, "Defaults")
	require.NoError(t, err)

	table, err := svc.CreateTable(ctx, base.ID, "", nil)
	require.NoError(t, err)
	require.Equal(t, "Table 1", table.Name)
	require.Len(t, table.Columns, 4)
	require.Equal(t, "Name", table.Columns[0].Name)
	require.Equal(t, types.ColumnText, table.Columns[3].Type)
	require.Len(t, table.Rows, 4)
	require.NotNil(t, table.View)
	require.Empty(t, table.View.Config.Sort)

	next, err := svc.CreateTable(ctx, base.ID, "  ", nil)
	require.NoError(t, err)
	require.Equal(t, "Table 2", next.Name)

	// The shared default column list must not be modified by a create.
	require.Equal(t, "Name", defaultColumns[0].Name)

	tables, err := svc.ListTables(ctx, base.ID)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	_, err = svc.CreateTable(ctx, 9999, "Orphan", nil)
	require.True(t, errs.IsNotFound(err))
}

func TestCreateTableRejectsDuplicateColumns(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	base, err := svc.CreateBase(ctx, "Duplicates")
	require.NoError(t, err)

	_, err = svc.CreateTable(ctx, base.ID, "Dupes", []types.ColumnDef{{Name: "A"}, {Name: " A "}})
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))
}

func TestAddColumn(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, peopleColumns(), nil)
	ctx := context.Background()

	col, err := svc.AddColumn(ctx, ft.table.ID, types.ColumnDef{Name: "Estimate", Type: types.ColumnNumber})
	require.NoError(t, err)
	require.Equal(t, types.ColumnNumber, col.Type)

	_, err = svc.AddColumn(ctx, ft.table.ID, types.ColumnDef{Name: "Estimate", Type: types.ColumnText})
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))
	require.Equal(t, "Please create a new unique column", errs.Message(err))

	_, err = svc.AddColumn(ctx, ft.table.ID, types.ColumnDef{Name: "When", Type: "date"})
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))

	_, err = svc.AddColumn(ctx, ft.table.ID, types.ColumnDef{Name: ""})
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))

	table, err := svc.GetTable(ctx, ft.table.ID)
	require.NoError(t, err)
	require.Len(t, table.Columns, 5)
}

func TestCreateTableWithRows(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	base, err := svc.CreateBase(ctx, "With rows")
	require.NoError(t, err)
	cols := []types.ColumnDef{{Name: "Item"}, {Name: "Qty", Type: types.ColumnNumber}}

	table, err := svc.CreateTableWithRows(ctx, base.ID, "Stock", cols, []types.Attributes{{"Item": "bolt", "Qty": 4}})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	require.Equal(t, 4.0, table.Rows[0].Attributes["Qty"])

	_, err = svc.CreateTableWithRows(ctx, base.ID, "Broken", cols, []types.Attributes{{"Qty": "notanumber"}})
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))

	_, err = svc.CreateTableWithRows(ctx, base.ID, "Empty", nil, nil)
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))

	tables, err := svc.ListTables(ctx, base.ID)
	require.NoError(t, err)
	require.Len(t, tables, 1)
}
