package query

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

// Expr is a SQL fragment using ? placeholders. It satisfies squirrel.Sqlizer.
type Expr struct {
	SQL  string
	Args []any
}

func (e Expr) ToSql() (string, []interface{}, error) {
	return e.SQL, e.Args, nil
}

func (e Expr) cmp(op string, v any) Expr {
	args := make([]any, 0, len(e.Args)+1)
	args = append(args, e.Args...)
	return Expr{SQL: e.SQL + " " + op + " ?", Args: append(args, v)}
}

func (e Expr) isNull() Expr {
	return Expr{SQL: e.SQL + " IS NULL", Args: e.Args}
}

func (e Expr) isNotNull() Expr {
	return Expr{SQL: e.SQL + " IS NOT NULL", Args: e.Args}
}

func (e Expr) not() Expr {
	return Expr{SQL: "NOT (" + e.SQL + ")", Args: e.Args}
}

// Dialect renders attribute-bag access for one storage engine. Every
// expression reads from the gb_rows table.
type Dialect interface {
	Name() string
	Placeholder() squirrel.PlaceholderFormat
	RowID() Expr
	// Text yields the attribute as text, NULL when absent.
	Text(column string) Expr
	// Number yields the attribute as a number, NULL when absent or not numeric.
	Number(column string) Expr
	// ILike is a case-insensitive LIKE against an already escaped pattern.
	ILike(e Expr, pattern string) Expr
	// SearchAny matches rows where any attribute value is ILIKE pattern.
	SearchAny(pattern string) Expr
	// SortKey renders one ORDER BY term with NULLs placed last.
	SortKey(e Expr, desc bool) Expr
}

// nullsLast is the standard NULLS LAST clause, used by Postgres and SQLite.
func nullsLast(e Expr, desc bool) Expr {
	if desc {
		return Expr{SQL: e.SQL + " DESC NULLS LAST", Args: e.Args}
	}
	return Expr{SQL: e.SQL + " ASC NULLS LAST", Args: e.Args}
}

type Postgres struct{}

func (Postgres) Name() string { return "postgresql" }

func (Postgres) Placeholder() squirrel.PlaceholderFormat { return squirrel.Dollar }

func (Postgres) RowID() Expr { return Expr{SQL: "gb_rows.id"} }

func (Postgres) Text(column string) Expr {
	return Expr{SQL: "(gb_rows.data ->> ?::text)", Args: []any{column}}
}

func (Postgres) Number(column string) Expr {
	return Expr{
		SQL:  "(CASE WHEN jsonb_typeof(gb_rows.data -> ?::text) = 'number' THEN (gb_rows.data ->> ?::text)::numeric END)",
		Args: []any{column, column},
	}
}

func (Postgres) ILike(e Expr, pattern string) Expr {
	return e.cmp("ILIKE", pattern)
}

func (Postgres) SortKey(e Expr, desc bool) Expr { return nullsLast(e, desc) }

func (Postgres) SearchAny(pattern string) Expr {
	return Expr{
		SQL:  "EXISTS (SELECT 1 FROM jsonb_each_text(gb_rows.data) AS kv WHERE kv.value ILIKE ?)",
		Args: []any{pattern},
	}
}

// SQLite reads the attribute bag through json_each so that any column name
// can be addressed without building a JSON path.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Placeholder() squirrel.PlaceholderFormat { return squirrel.Question }

func (SQLite) RowID() Expr { return Expr{SQL: "gb_rows.id"} }

func (SQLite) Text(column string) Expr {
	return Expr{
		SQL:  "(SELECT CAST(kv.value AS TEXT) FROM json_each(gb_rows.data) AS kv WHERE kv.key = ?)",
		Args: []any{column},
	}
}

func (SQLite) Number(column string) Expr {
	return Expr{
		SQL:  "(SELECT kv.value FROM json_each(gb_rows.data) AS kv WHERE kv.key = ? AND kv.type IN ('integer', 'real'))",
		Args: []any{column},
	}
}

func (SQLite) ILike(e Expr, pattern string) Expr {
	like := e.cmp("LIKE", pattern)
	like.SQL += ` ESCAPE '\'`
	return like
}

func (SQLite) SortKey(e Expr, desc bool) Expr { return nullsLast(e, desc) }

func (SQLite) SearchAny(pattern string) Expr {
	return Expr{
		SQL:  `EXISTS (SELECT 1 FROM json_each(gb_rows.data) AS kv WHERE CAST(kv.value AS TEXT) LIKE ? ESCAPE '\')`,
		Args: []any{pattern},
	}
}

// MySQL addresses attributes by JSON path. JSON_EXTRACT yields a JSON null
// for a key stored as null, so Text maps it back to SQL NULL.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Placeholder() squirrel.PlaceholderFormat { return squirrel.Question }

func (MySQL) RowID() Expr { return Expr{SQL: "gb_rows.id"} }

func (MySQL) Text(column string) Expr {
	path := jsonPath(column)
	return Expr{
		SQL: "(CASE WHEN JSON_TYPE(JSON_EXTRACT(gb_rows.data, ?)) <> 'NULL' " +
			"THEN JSON_UNQUOTE(JSON_EXTRACT(gb_rows.data, ?)) END)",
		Args: []any{path, path},
	}
}

func (MySQL) Number(column string) Expr {
	path := jsonPath(column)
	return Expr{
		SQL: "(CASE WHEN JSON_TYPE(JSON_EXTRACT(gb_rows.data, ?)) IN ('INTEGER', 'UNSIGNED INTEGER', 'DOUBLE', 'DECIMAL') " +
			"THEN CAST(JSON_EXTRACT(gb_rows.data, ?) AS DECIMAL(65, 30)) END)",
		Args: []any{path, path},
	}
}

func (MySQL) ILike(e Expr, pattern string) Expr {
	return Expr{SQL: "LOWER(" + e.SQL + ") LIKE LOWER(?)", Args: append(append([]any{}, e.Args...), pattern)}
}

// SortKey emulates NULLS LAST: "x IS NULL" is 0 for values and 1 for NULLs.
func (MySQL) SortKey(e Expr, desc bool) Expr {
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	args := make([]any, 0, 2*len(e.Args))
	args = append(append(args, e.Args...), e.Args...)
	return Expr{SQL: e.SQL + " IS NULL ASC, " + e.SQL + dir, Args: args}
}

func (MySQL) SearchAny(pattern string) Expr {
	return Expr{
		SQL: "EXISTS (SELECT 1 FROM JSON_TABLE(JSON_EXTRACT(gb_rows.data, '$.*'), '$[*]' " +
			"COLUMNS (v TEXT PATH '$')) AS kv WHERE LOWER(kv.v) LIKE LOWER(?))",
		Args: []any{pattern},
	}
}

var jsonPathEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// jsonPath quotes a column name as a single JSON path member.
func jsonPath(column string) string {
	return `$."` + jsonPathEscaper.Replace(column) + `"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a %term% pattern with LIKE metacharacters escaped.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
