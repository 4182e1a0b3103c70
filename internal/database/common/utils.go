package common

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Rana718/gridbase/internal/types"
)

// Pre-compiled regex patterns for SQL parsing
var (
	commentRegex = regexp.MustCompile(`(?m)^\s*--.*$`)
	stringRegex  = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"`)
)

// InsertBatchSize bounds rows per INSERT so parameter counts stay small.
const InsertBatchSize = 1000

// ParseSQLStatements splits a DDL script on semicolons outside string literals.
func ParseSQLStatements(sql string) []string {
	sql = commentRegex.ReplaceAllString(sql, "")

	inString := make(map[int]bool)
	for _, match := range stringRegex.FindAllStringIndex(sql, -1) {
		for i := match[0]; i < match[1]; i++ {
			inString[i] = true
		}
	}

	statements := make([]string, 0, strings.Count(sql, ";")+1)
	var current strings.Builder

	for i, char := range sql {
		if char == ';' && !inString[i] {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}
		current.WriteRune(char)
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// DecodeAttributes reads a stored attribute bag. Empty input is an empty bag.
func DecodeAttributes(data []byte) (types.Attributes, error) {
	attrs := types.Attributes{}
	if len(data) == 0 {
		return attrs, nil
	}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode row data: %w", err)
	}
	if attrs == nil {
		attrs = types.Attributes{}
	}
	return attrs, nil
}

func EncodeAttributes(attrs types.Attributes) (string, error) {
	if attrs == nil {
		return "{}", nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to encode row data: %w", err)
	}
	return string(b), nil
}

func DecodeViewConfig(data []byte) (types.ViewConfig, error) {
	var cfg types.ViewConfig
	if len(data) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode view config: %w", err)
	}
	return cfg, nil
}

func EncodeViewConfig(cfg types.ViewConfig) (string, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode view config: %w", err)
	}
	return string(b), nil
}

// Chunks splits n items into [start, end) ranges of at most size.
func Chunks(n, size int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
