package query

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/Rana718/gridbase/internal/types"
)

// Columns resolves column ids from a view configuration against the
// table's current schema. Lookups that miss are not errors.
type Columns struct {
	byID map[int64]types.Column
}

func NewColumns(cols []types.Column) Columns {
	byID := make(map[int64]types.Column, len(cols))
	for _, c := range cols {
		byID[c.ID] = c
	}
	return Columns{byID: byID}
}

func (c Columns) Resolve(id int64) (types.Column, bool) {
	col, ok := c.byID[id]
	return col, ok
}

func textValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

// numberValue accepts JSON numbers and numeric strings.
func numberValue(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// storedNumber mirrors Dialect.Number: only values stored as numbers count.
func storedNumber(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return numberValue(v)
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := textValue(v)
	return !ok || strings.TrimSpace(s) == ""
}
