package types

import (
	"time"
)

type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
)

func (t ColumnType) Valid() bool {
	return t == ColumnText || t == ColumnNumber
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Attributes is a row's open-ended field bag keyed by column name.
// Values are string, float64 or nil.
type Attributes map[string]any

type Base struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Table struct {
	ID        int64     `json:"id"`
	BaseID    int64     `json:"baseId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Column struct {
	ID        int64      `json:"id"`
	TableID   int64      `json:"tableId"`
	Name      string     `json:"name"`
	Type      ColumnType `json:"type"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Row struct {
	ID         int64      `json:"id"`
	TableID    int64      `json:"tableId"`
	Attributes Attributes `json:"data"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type SortSpec struct {
	ColumnID  int64         `json:"columnId" yaml:"columnId"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// FilterSpec.Value is a string or a number; operators that need no value ignore it.
type FilterSpec struct {
	ColumnID int64  `json:"columnId" yaml:"columnId"`
	Operator string `json:"operator" yaml:"operator"`
	Value    any    `json:"value" yaml:"value"`
}

type ViewConfig struct {
	Sort          []SortSpec   `json:"sort,omitempty" yaml:"sort,omitempty"`
	Filters       []FilterSpec `json:"filters,omitempty" yaml:"filters,omitempty"`
	HiddenColumns []int64      `json:"hiddenColumns,omitempty" yaml:"hiddenColumns,omitempty"`
}

type View struct {
	ID        int64      `json:"id"`
	TableID   int64      `json:"tableId"`
	Config    ViewConfig `json:"config"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ColumnDef describes a column to create alongside a new table.
type ColumnDef struct {
	Name string     `json:"name" yaml:"name"`
	Type ColumnType `json:"type" yaml:"type"`
}

type NewTable struct {
	BaseID  int64
	Name    string
	Columns []ColumnDef
	Rows    []Attributes
}

type TableWithColumns struct {
	Table
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows,omitempty"`
	View    *View    `json:"view,omitempty"`
}

// Cursor marks the last row a client has seen. SortValues holds that row's
// sort key per active sort column name.
type Cursor struct {
	ID         int64          `json:"id"`
	SortValues map[string]any `json:"sortValues,omitempty"`
}

type FetchRowsRequest struct {
	TableID  int64   `json:"tableId"`
	PageSize int     `json:"pageSize"`
	Cursor   *Cursor `json:"cursor"`
	Search   string  `json:"search"`
}

type FetchRowsResult struct {
	Rows       []Row   `json:"rows"`
	NextCursor *Cursor `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

// ViewConfigPatch replaces only the keys that are present.
type ViewConfigPatch struct {
	Sort          *[]SortSpec   `json:"sort,omitempty"`
	Filters       *[]FilterSpec `json:"filters,omitempty"`
	HiddenColumns *[]int64      `json:"hiddenColumns,omitempty"`
}

// Apply returns cfg with the patch's present keys replaced.
func (p ViewConfigPatch) Apply(cfg ViewConfig) ViewConfig {
	if p.Sort != nil {
		cfg.Sort = *p.Sort
	}
	if p.Filters != nil {
		cfg.Filters = *p.Filters
	}
	if p.HiddenColumns != nil {
		cfg.HiddenColumns = *p.HiddenColumns
	}
	return cfg
}
