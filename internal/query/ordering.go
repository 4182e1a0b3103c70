package query

import (
	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/types"
)

// Term is one compiled sort key. Nulls always sort last.
type Term struct {
	Column types.Column
	Value  Expr
	Desc   bool
}

// Ordering is the compiled sort. The row id is an implicit final ascending
// term, so two distinct rows never tie.
type Ordering struct {
	dialect Dialect
	Terms   []Term
}

// CompileOrdering skips sort entries whose column no longer exists, and
// repeated entries for a column already sorted on.
func CompileOrdering(d Dialect, sort []types.SortSpec, cols Columns) Ordering {
	o := Ordering{dialect: d}
	seen := make(map[int64]bool, len(sort))
	for _, s := range sort {
		col, ok := cols.Resolve(s.ColumnID)
		if !ok || seen[col.ID] {
			continue
		}
		seen[col.ID] = true
		o.Terms = append(o.Terms, Term{
			Column: col,
			Value:  valueExpr(d, col),
			Desc:   s.Direction == types.Descending,
		})
	}
	return o
}

func valueExpr(d Dialect, col types.Column) Expr {
	if col.Type == types.ColumnNumber {
		return d.Number(col.Name)
	}
	return d.Text(col.Name)
}

// OrderBy renders ORDER BY clauses, id tiebreak included.
func (o Ordering) OrderBy() []squirrel.Sqlizer {
	clauses := make([]squirrel.Sqlizer, 0, len(o.Terms)+1)
	for _, t := range o.Terms {
		clauses = append(clauses, o.dialect.SortKey(t.Value, t.Desc))
	}
	return append(clauses, Expr{SQL: o.dialect.RowID().SQL + " ASC"})
}

// KeyOf returns what the term's SQL expression evaluates to for attrs.
func (t Term) KeyOf(attrs types.Attributes) any {
	v, ok := attrs[t.Column.Name]
	if !ok || v == nil {
		return nil
	}
	if t.Column.Type == types.ColumnNumber {
		if n, ok := storedNumber(v); ok {
			return n
		}
		return nil
	}
	if s, ok := textValue(v); ok {
		return s
	}
	return nil
}

// cursorKey coerces a cursor's sort value to the term's type. ok is false
// when the cursor carries no usable value for the term.
func (t Term) cursorKey(values map[string]any) (any, bool) {
	raw, ok := values[t.Column.Name]
	if !ok {
		return nil, false
	}
	if raw == nil {
		return nil, true
	}
	if t.Column.Type == types.ColumnNumber {
		n, ok := numberValue(raw)
		return n, ok
	}
	s, ok := textValue(raw)
	return s, ok
}

// after selects rows whose key sorts strictly after v. A NULL key is last,
// so nothing follows it.
func (t Term) after(v any) squirrel.Sqlizer {
	if v == nil {
		return nil
	}
	op := ">"
	if t.Desc {
		op = "<"
	}
	return squirrel.Or{t.Value.cmp(op, v), t.Value.isNull()}
}

func (t Term) equal(v any) squirrel.Sqlizer {
	if v == nil {
		return t.Value.isNull()
	}
	return t.Value.cmp("=", v)
}
