package grid

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/Rana718/gridbase/internal/config"
	"github.com/Rana718/gridbase/internal/database/sqlite"
	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	store := sqlite.New(1)
	require.NoError(t, store.Connect(ctx, filepath.Join(t.TempDir(), "grid.db")))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init(ctx))

	cfg := config.DefaultConfig()
	cfg.Database.Provider = "sqlite"
	svc, err := NewService(store, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return svc
}

type fixtureTable struct {
	table *types.TableWithColumns
	cols  map[string]int64
	rows  []types.Row
}

func createTable(t *testing.T, svc *Service, defs []types.ColumnDef, records []types.Attributes) fixtureTable {
	t.Helper()
	ctx := context.Background()

	base, err := svc.CreateBase(ctx, "Test base")
	require.NoError(t, err)
	table, err := svc.CreateTable(ctx, base.ID, "People", defs)
	require.NoError(t, err)

	rows, err := svc.ImportRows(ctx, table.ID, records)
	require.NoError(t, err)

	cols := map[string]int64{}
	for _, c := range table.Columns {
		cols[c.Name] = c.ID
	}
	return fixtureTable{table: table, cols: cols, rows: rows}
}

func setView(t *testing.T, svc *Service, ft fixtureTable, cfg types.ViewConfig) {
	t.Helper()
	_, err := svc.UpdateViewConfig(context.Background(), ft.table.View.ID, types.ViewConfigPatch{
		Sort:          &cfg.Sort,
		Filters:       &cfg.Filters,
		HiddenColumns: &cfg.HiddenColumns,
	}, false)
	require.NoError(t, err)
}

// collect follows cursors until the last page and returns the row ids seen.
func collect(t *testing.T, svc *Service, tableID int64, pageSize int, search string) []int64 {
	t.Helper()
	var ids []int64
	req := types.FetchRowsRequest{TableID: tableID, PageSize: pageSize, Search: search}
	for i := 0; i < 1000; i++ {
		page, err := svc.FetchRows(context.Background(), req)
		require.NoError(t, err)
		for _, r := range page.Rows {
			ids = append(ids, r.ID)
		}
		if !page.HasMore {
			require.Nil(t, page.NextCursor)
			return ids
		}
		require.NotNil(t, page.NextCursor)
		req.Cursor = page.NextCursor
	}
	t.Fatal("pagination did not terminate")
	return nil
}

func peopleColumns() []types.ColumnDef {
	return []types.ColumnDef{
		{Name: "Name", Type: types.ColumnText},
		{Name: "Status", Type: types.ColumnText},
		{Name: "Points", Type: types.ColumnNumber},
		{Name: "Notes", Type: types.ColumnText},
	}
}

func peopleRows() []types.Attributes {
	return []types.Attributes{
		{"Name": "a", "Status": "todo", "Points": 5},
		{"Name": "b", "Status": "done", "Points": 10},
		{"Name": "c", "Status": "todo", "Points": 5},
		{"Name": "d", "Points": 9},
		{"Name": "e", "Status": "done", "Points": nil},
		{"Name": "f", "Status": "todo", "Points": 9, "Notes": "hidden NEEDLE here"},
		{"Name": "g", "Status": "done", "Points": 10},
	}
}

func TestFetchRowsPagesByID(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, []types.ColumnDef{{Name: "Name", Type: types.ColumnText}}, []types.Attributes{
		{"Name": "one"}, {"Name": "two"}, {"Name": "three"}, {"Name": "four"}, {"Name": "five"},
	})
	ctx := context.Background()
	first := ft.rows[0].ID

	page1, err := svc.FetchRows(ctx, types.FetchRowsRequest{TableID: ft.table.ID, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, []int64{first, first + 1}, rowIDs(page1.Rows))
	require.True(t, page1.HasMore)
	require.Equal(t, &types.Cursor{ID: first + 1}, page1.NextCursor)

	page2, err := svc.FetchRows(ctx, types.FetchRowsRequest{TableID: ft.table.ID, PageSize: 2, Cursor: page1.NextCursor})
	require.NoError(t, err)
	require.Equal(t, []int64{first + 2, first + 3}, rowIDs(page2.Rows))
	require.True(t, page2.HasMore)

	page3, err := svc.FetchRows(ctx, types.FetchRowsRequest{TableID: ft.table.ID, PageSize: 2, Cursor: page2.NextCursor})
	require.NoError(t, err)
	require.Equal(t, []int64{first + 4}, rowIDs(page3.Rows))
	require.False(t, page3.HasMore)
	require.Nil(t, page3.NextCursor)
}

func rowIDs(rows []types.Row) []int64 {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestFetchRowsMultiSortIsComplete(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, peopleColumns(), peopleRows())
	setView(t, svc, ft, types.ViewConfig{Sort: []types.SortSpec{
		{ColumnID: ft.cols["Status"], Direction: types.Ascending},
		{ColumnID: ft.cols["Points"], Direction: types.Descending},
	}})

	id := func(i int) int64 { return ft.rows[i].ID }
	// done: b(10) g(10) e(null); todo: f(9) a(5) c(5); no status: d
	want := []int64{id(1), id(6), id(4), id(5), id(0), id(2), id(3)}

	for _, size := range []int{1, 2, 3, 100} {
		require.Equal(t, want, collect(t, svc, ft.table.ID, size, ""), "page size %d", size)
	}
}

func TestFetchRowsSortsNumbersNumerically(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, []types.ColumnDef{{Name: "Points", Type: types.ColumnNumber}}, []types.Attributes{
		{"Points": 10}, {"Points": 9}, {"Points": 100}, {"Points": 9.5},
	})
	setView(t, svc, ft, types.ViewConfig{Sort: []types.SortSpec{
		{ColumnID: ft.cols["Points"], Direction: types.Ascending},
	}})

	got := collect(t, svc, ft.table.ID, 2, "")
	require.Equal(t, []int64{ft.rows[1].ID, ft.rows[3].ID, ft.rows[0].ID, ft.rows[2].ID}, got)
}

func TestFetchRowsFilters(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, peopleColumns(), peopleRows())
	id := func(i int) int64 { return ft.rows[i].ID }

	tests := []struct {
		name    string
		filters []types.FilterSpec
		want    []int64
	}{
		{
			name:    "does not equal keeps empty cells",
			filters: []types.FilterSpec{{ColumnID: ft.cols["Status"], Operator: "does_not_equal", Value: "done"}},
			want:    []int64{id(0), id(2), id(3), id(5)},
		},
		{
			name:    "number greater than",
			filters: []types.FilterSpec{{ColumnID: ft.cols["Points"], Operator: "greater_than", Value: 9}},
			want:    []int64{id(1), id(6)},
		},
		{
			name:    "contains is case insensitive",
			filters: []types.FilterSpec{{ColumnID: ft.cols["Notes"], Operator: "contains", Value: "needle"}},
			want:    []int64{id(5)},
		},
		{
			name:    "is empty",
			filters: []types.FilterSpec{{ColumnID: ft.cols["Status"], Operator: "is_empty"}},
			want:    []int64{id(3)},
		},
		{
			name: "conditions are combined",
			filters: []types.FilterSpec{
				{ColumnID: ft.cols["Status"], Operator: "equals", Value: "todo"},
				{ColumnID: ft.cols["Points"], Operator: "not_equals", Value: 5},
			},
			want: []int64{id(5)},
		},
		{
			name:    "unknown column is ignored",
			filters: []types.FilterSpec{{ColumnID: 9999, Operator: "equals", Value: "zzz"}},
			want:    rowIDs(ft.rows),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setView(t, svc, ft, types.ViewConfig{Filters: tt.filters})
			require.Equal(t, tt.want, collect(t, svc, ft.table.ID, 2, ""))
		})
	}
}

func TestFetchRowsSearchesEveryAttribute(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, peopleColumns(), peopleRows())
	setView(t, svc, ft, types.ViewConfig{HiddenColumns: []int64{ft.cols["Notes"]}})

	require.Equal(t, []int64{ft.rows[5].ID}, collect(t, svc, ft.table.ID, 20, "Needle"))
	require.Equal(t, []int64{ft.rows[1].ID, ft.rows[4].ID, ft.rows[6].ID}, collect(t, svc, ft.table.ID, 20, "DON"))
	require.Empty(t, collect(t, svc, ft.table.ID, 20, "%"))
}

func TestFetchRowsIsRepeatable(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, peopleColumns(), peopleRows())
	setView(t, svc, ft, types.ViewConfig{Sort: []types.SortSpec{{ColumnID: ft.cols["Name"], Direction: types.Descending}}})
	ctx := context.Background()

	req := types.FetchRowsRequest{TableID: ft.table.ID, PageSize: 3}
	first, err := svc.FetchRows(ctx, req)
	require.NoError(t, err)
	second, err := svc.FetchRows(ctx, req)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, map[string]any{"Name": "e"}, first.NextCursor.SortValues)
}

func TestFetchRowsErrors(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, peopleColumns(), peopleRows())
	ctx := context.Background()

	_, err := svc.FetchRows(ctx, types.FetchRowsRequest{TableID: 424242})
	require.True(t, errs.IsNotFound(err))

	_, err = svc.FetchRows(ctx, types.FetchRowsRequest{TableID: ft.table.ID, PageSize: 101})
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))

	_, err = svc.FetchRows(ctx, types.FetchRowsRequest{TableID: ft.table.ID, PageSize: -1})
	require.Equal(t, errs.KindBadRequest, errs.KindOf(err))

	page, err := svc.FetchRows(ctx, types.FetchRowsRequest{TableID: ft.table.ID})
	require.NoError(t, err)
	require.Len(t, page.Rows, len(ft.rows))
	require.False(t, page.HasMore)
}

func TestFetchRowsToleratesDeletedCursorRow(t *testing.T) {
	svc := newTestService(t)
	ft := createTable(t, svc, peopleColumns(), peopleRows())

	cursor := &types.Cursor{ID: 1_000_000}
	page, err := svc.FetchRows(context.Background(), types.FetchRowsRequest{TableID: ft.table.ID, Cursor: cursor})
	require.NoError(t, err)
	require.Empty(t, page.Rows)
	require.False(t, page.HasMore)
}
