package query

import (
	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/types"
)

const (
	OpEquals         = "equals"
	OpDoesNotEqual   = "does_not_equal"
	OpNotEquals      = "not_equals"
	OpContains       = "contains"
	OpDoesNotContain = "does_not_contain"
	OpIsEmpty        = "is_empty"
	OpIsNotEmpty     = "is_not_empty"
	OpGreaterThan    = "greater_than"
	OpLessThan       = "less_than"
)

var operatorsByType = map[types.ColumnType]map[string]bool{
	types.ColumnText: {
		OpEquals: true, OpDoesNotEqual: true, OpContains: true,
		OpDoesNotContain: true, OpIsEmpty: true, OpIsNotEmpty: true,
	},
	types.ColumnNumber: {
		OpEquals: true, OpDoesNotEqual: true, OpGreaterThan: true,
		OpLessThan: true, OpIsEmpty: true, OpIsNotEmpty: true,
	},
}

func normalizeOperator(op string) string {
	if op == OpNotEquals {
		return OpDoesNotEqual
	}
	return op
}

// OperatorAllowed reports whether op may be applied to a column of type t.
func OperatorAllowed(t types.ColumnType, op string) bool {
	return operatorsByType[t][normalizeOperator(op)]
}

func NeedsValue(op string) bool {
	return op != OpIsEmpty && op != OpIsNotEmpty
}

// IsComplete reports whether a filter row has a resolvable column and, when
// its operator needs one, a non-blank value.
func IsComplete(f types.FilterSpec, cols Columns) bool {
	if _, ok := cols.Resolve(f.ColumnID); !ok {
		return false
	}
	return !NeedsValue(f.Operator) || !isBlank(f.Value)
}

// HasValidFilters is true when every filter row is complete.
func HasValidFilters(filters []types.FilterSpec, cols Columns) bool {
	for _, f := range filters {
		if !IsComplete(f, cols) {
			return false
		}
	}
	return true
}

// CompilePredicate ANDs one clause per applicable filter and, for a
// non-empty search term, one clause matching any attribute value.
// Filters that cannot be applied are dropped.
func CompilePredicate(d Dialect, filters []types.FilterSpec, search string, cols Columns) squirrel.And {
	where := squirrel.And{}
	for _, f := range filters {
		if clause, ok := compileFilter(d, f, cols); ok {
			where = append(where, clause)
		}
	}
	if search != "" {
		where = append(where, d.SearchAny(containsPattern(search)))
	}
	return where
}

func compileFilter(d Dialect, f types.FilterSpec, cols Columns) (squirrel.Sqlizer, bool) {
	col, ok := cols.Resolve(f.ColumnID)
	if !ok {
		return nil, false
	}
	op := normalizeOperator(f.Operator)
	if !OperatorAllowed(col.Type, op) {
		return nil, false
	}

	switch op {
	case OpIsEmpty:
		text := d.Text(col.Name)
		return squirrel.Or{text.isNull(), text.cmp("=", "")}, true
	case OpIsNotEmpty:
		text := d.Text(col.Name)
		return squirrel.And{text.isNotNull(), text.cmp("<>", "")}, true
	}

	if isBlank(f.Value) {
		return nil, false
	}

	if col.Type == types.ColumnNumber {
		n, ok := numberValue(f.Value)
		if !ok {
			return nil, false
		}
		num := d.Number(col.Name)
		switch op {
		case OpEquals:
			return num.cmp("=", n), true
		case OpDoesNotEqual:
			return squirrel.Or{num.isNull(), num.cmp("<>", n)}, true
		case OpGreaterThan:
			return num.cmp(">", n), true
		case OpLessThan:
			return num.cmp("<", n), true
		}
		return nil, false
	}

	v, ok := textValue(f.Value)
	if !ok {
		return nil, false
	}
	text := d.Text(col.Name)
	switch op {
	case OpEquals:
		return text.cmp("=", v), true
	case OpDoesNotEqual:
		return squirrel.Or{text.isNull(), text.cmp("<>", v)}, true
	case OpContains:
		return d.ILike(text, containsPattern(v)), true
	case OpDoesNotContain:
		return squirrel.Or{text.isNull(), d.ILike(text, containsPattern(v)).not()}, true
	}
	return nil, false
}
