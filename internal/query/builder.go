package query

import (
	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/types"
)

// RowQuery is what an attribute store executes: rows of one table matching
// Where, sorted by OrderBy, at most Limit of them.
type RowQuery struct {
	TableID int64
	Where   squirrel.Sqlizer
	OrderBy []squirrel.Sqlizer
	Limit   uint64
}

type Plan struct {
	Query    RowQuery
	Ordering Ordering
	PageSize int
}

type Builder struct {
	dialect Dialect
	mode    KeysetMode
}

func NewBuilder(d Dialect, mode KeysetMode) *Builder {
	if mode == "" {
		mode = KeysetFull
	}
	return &Builder{dialect: d, mode: mode}
}

// Build compiles a view configuration, search term and cursor into one page
// query. pageSize must already be validated.
func (b *Builder) Build(tableID int64, cols []types.Column, cfg types.ViewConfig, search string, cursor *types.Cursor, pageSize int) Plan {
	set := NewColumns(cols)
	where := CompilePredicate(b.dialect, cfg.Filters, search, set)
	ordering := CompileOrdering(b.dialect, cfg.Sort, set)
	if boundary := ordering.Boundary(cursor, b.mode); boundary != nil {
		where = append(where, boundary)
	}
	return Plan{
		Query: RowQuery{
			TableID: tableID,
			Where:   where,
			OrderBy: ordering.OrderBy(),
			Limit:   uint64(pageSize) + 1,
		},
		Ordering: ordering,
		PageSize: pageSize,
	}
}
