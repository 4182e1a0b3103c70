package query

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Rana718/gridbase/internal/types"
)

func sortBy(specs ...types.SortSpec) Ordering {
	return CompileOrdering(Postgres{}, specs, testColumns)
}

func TestCompileOrdering(t *testing.T) {
	o := sortBy(
		types.SortSpec{ColumnID: 2, Direction: types.Descending},
		types.SortSpec{ColumnID: 42, Direction: types.Ascending},
		types.SortSpec{ColumnID: 1, Direction: types.Ascending},
		types.SortSpec{ColumnID: 2, Direction: types.Ascending},
	)

	if len(o.Terms) != 2 {
		t.Fatalf("expected 2 terms after skipping unknown and repeated columns, got %d", len(o.Terms))
	}

	var clauses []string
	for _, c := range o.OrderBy() {
		sql, _, err := c.ToSql()
		if err != nil {
			t.Fatalf("ToSql failed: %v", err)
		}
		clauses = append(clauses, sql)
	}
	want := []string{
		pgPoints + " DESC NULLS LAST",
		pgName + " ASC NULLS LAST",
		"gb_rows.id ASC",
	}
	if !reflect.DeepEqual(clauses, want) {
		t.Errorf("order by mismatch\n got: %v\nwant: %v", clauses, want)
	}
}

func TestBoundaryWithoutCursor(t *testing.T) {
	if b := sortBy().Boundary(nil, KeysetFull); b != nil {
		t.Errorf("expected no boundary without a cursor, got %#v", b)
	}
}

func TestBoundaryUnsorted(t *testing.T) {
	sql, args, err := sortBy().Boundary(&types.Cursor{ID: 4}, KeysetFull).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if sql != "gb_rows.id > ?" {
		t.Errorf("unexpected boundary: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{int64(4)}) {
		t.Errorf("unexpected args: %#v", args)
	}
}

func TestBoundarySingleKey(t *testing.T) {
	o := sortBy(types.SortSpec{ColumnID: 2, Direction: types.Ascending})
	cursor := &types.Cursor{ID: 3, SortValues: map[string]any{"Points": 9.0}}

	sql, args, err := o.Boundary(cursor, KeysetFull).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	want := "(((" + pgPoints + " > ? OR " + pgPoints + " IS NULL)) OR (" + pgPoints + " = ? AND gb_rows.id > ?))"
	if sql != want {
		t.Errorf("sql mismatch\n got: %s\nwant: %s", sql, want)
	}
	wantArgs := []any{"Points", "Points", 9.0, "Points", "Points", "Points", "Points", 9.0, int64(3)}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args mismatch\n got: %#v\nwant: %#v", args, wantArgs)
	}
}

func TestBoundaryDescendingFlipsComparison(t *testing.T) {
	o := sortBy(types.SortSpec{ColumnID: 1, Direction: types.Descending})
	cursor := &types.Cursor{ID: 3, SortValues: map[string]any{"Name": "m"}}

	sql, _, err := o.Boundary(cursor, KeysetFull).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.Contains(sql, pgName+" < ?") {
		t.Errorf("expected descending boundary to use <, got %s", sql)
	}
}

func TestBoundaryMultiKey(t *testing.T) {
	o := sortBy(
		types.SortSpec{ColumnID: 1, Direction: types.Ascending},
		types.SortSpec{ColumnID: 2, Direction: types.Descending},
	)
	cursor := &types.Cursor{ID: 7, SortValues: map[string]any{"Name": "b", "Points": 5.0}}

	sql, _, err := o.Boundary(cursor, KeysetFull).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	after0 := "(" + pgName + " > ? OR " + pgName + " IS NULL)"
	after1 := "(" + pgPoints + " < ? OR " + pgPoints + " IS NULL)"
	want := "((" + after0 + ") OR (" + pgName + " = ? AND " + after1 + ") OR (" +
		pgName + " = ? AND " + pgPoints + " = ? AND gb_rows.id > ?))"
	if sql != want {
		t.Errorf("sql mismatch\n got: %s\nwant: %s", sql, want)
	}

	first, _, err := o.Boundary(cursor, KeysetFirstKey).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if strings.Contains(first, pgPoints) {
		t.Errorf("first_key boundary should only compare the first term, got %s", first)
	}
}

func TestBoundaryNullCursorValue(t *testing.T) {
	o := sortBy(types.SortSpec{ColumnID: 2, Direction: types.Ascending})
	cursor := &types.Cursor{ID: 8, SortValues: map[string]any{"Points": nil}}

	sql, _, err := o.Boundary(cursor, KeysetFull).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	want := "((" + pgPoints + " IS NULL AND gb_rows.id > ?))"
	if sql != want {
		t.Errorf("sql mismatch\n got: %s\nwant: %s", sql, want)
	}
}

func TestBoundaryMissingSortValueFallsBackToID(t *testing.T) {
	o := sortBy(types.SortSpec{ColumnID: 2, Direction: types.Ascending})
	cursor := &types.Cursor{ID: 8, SortValues: map[string]any{"Name": "x"}}

	sql, _, err := o.Boundary(cursor, KeysetFull).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if sql != "gb_rows.id > ?" {
		t.Errorf("expected id-only boundary, got %s", sql)
	}
}

func TestPage(t *testing.T) {
	o := sortBy(types.SortSpec{ColumnID: 2, Direction: types.Ascending})
	rows := []types.Row{
		{ID: 1, Attributes: types.Attributes{"Points": 1.0}},
		{ID: 2, Attributes: types.Attributes{"Points": "7"}},
		{ID: 3, Attributes: types.Attributes{"Points": 3.0}},
	}

	page := o.Page(rows, 2)
	if !page.HasMore || len(page.Rows) != 2 {
		t.Fatalf("expected a full page with more rows, got %d rows hasMore=%v", len(page.Rows), page.HasMore)
	}
	if page.NextCursor.ID != 2 {
		t.Errorf("expected cursor at the last kept row, got id %d", page.NextCursor.ID)
	}
	// A string stored in a number column reads as NULL, like the SQL expression.
	if v, ok := page.NextCursor.SortValues["Points"]; !ok || v != nil {
		t.Errorf("expected nil sort value for non-numeric cell, got %#v", v)
	}

	last := o.Page(rows[2:], 2)
	if last.HasMore || last.NextCursor != nil {
		t.Errorf("expected final page without cursor, got %+v", last)
	}

	empty := o.Page(nil, 2)
	if empty.Rows == nil || len(empty.Rows) != 0 {
		t.Errorf("expected empty non-nil rows, got %#v", empty.Rows)
	}
}
