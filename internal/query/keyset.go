package query

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/types"
)

type KeysetMode string

const (
	// KeysetFull chains the boundary across every sort term.
	KeysetFull KeysetMode = "full"
	// KeysetFirstKey compares only the first sort term, then the id. Rows
	// sharing a first key can be skipped or repeated across pages under a
	// multi-column sort.
	KeysetFirstKey KeysetMode = "first_key"
)

func ParseKeysetMode(s string) (KeysetMode, error) {
	switch KeysetMode(s) {
	case "", KeysetFull:
		return KeysetFull, nil
	case KeysetFirstKey:
		return KeysetFirstKey, nil
	}
	return "", fmt.Errorf("unknown keyset mode %q", s)
}

// Boundary returns the predicate selecting rows strictly after cursor, or
// nil when there is no cursor. A cursor lacking a value for any compared
// term degrades to an id comparison.
func (o Ordering) Boundary(cursor *types.Cursor, mode KeysetMode) squirrel.Sqlizer {
	if cursor == nil {
		return nil
	}
	idAfter := o.dialect.RowID().cmp(">", cursor.ID)

	terms := o.Terms
	if mode == KeysetFirstKey && len(terms) > 1 {
		terms = terms[:1]
	}
	if len(terms) == 0 {
		return idAfter
	}

	keys := make([]any, len(terms))
	for i, t := range terms {
		v, ok := t.cursorKey(cursor.SortValues)
		if !ok {
			return idAfter
		}
		keys[i] = v
	}

	// (t0 after) OR (t0 = k0 AND t1 after) OR ... OR (all equal AND id after)
	boundary := squirrel.Or{}
	for i, t := range terms {
		after := t.after(keys[i])
		if after == nil {
			continue
		}
		clause := squirrel.And{}
		for j := 0; j < i; j++ {
			clause = append(clause, terms[j].equal(keys[j]))
		}
		boundary = append(boundary, append(clause, after))
	}
	tie := squirrel.And{}
	for j, t := range terms {
		tie = append(tie, t.equal(keys[j]))
	}
	return append(boundary, append(tie, idAfter))
}

// CursorFor builds the cursor pointing just past row.
func (o Ordering) CursorFor(row types.Row) *types.Cursor {
	c := &types.Cursor{ID: row.ID}
	if len(o.Terms) > 0 {
		c.SortValues = make(map[string]any, len(o.Terms))
		for _, t := range o.Terms {
			c.SortValues[t.Column.Name] = t.KeyOf(row.Attributes)
		}
	}
	return c
}

// Page trims a result fetched with limit pageSize+1. The extra row only
// signals that more rows exist; the cursor points at the last kept row.
func (o Ordering) Page(rows []types.Row, pageSize int) *types.FetchRowsResult {
	if rows == nil {
		rows = []types.Row{}
	}
	if len(rows) <= pageSize {
		return &types.FetchRowsResult{Rows: rows}
	}
	rows = rows[:pageSize]
	return &types.FetchRowsResult{
		Rows:       rows,
		NextCursor: o.CursorFor(rows[len(rows)-1]),
		HasMore:    true,
	}
}
