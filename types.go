package sheetsql

import (
	"fmt"
	"strings"
)

// File format delimiters
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
)

// unnamedColumnPrefix names header cells that are empty in the source
const unnamedColumnPrefix = "Unnamed: "

// header is the ordered list of column names of a table.
type header []string

// newHeader builds a header from the raw first row of a source.
// Empty cells become "Unnamed: <index>" and repeated names get ".1", ".2", ...
// suffixes. Names are compared case-insensitively because SQLite does.
func newHeader(cells []string) header {
	h := make(header, len(cells))
	used := make(map[string]bool, len(cells))
	suffix := make(map[string]int)

	for i, cell := range cells {
		name := cell
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("%s%d", unnamedColumnPrefix, i)
		}

		key := strings.ToLower(name)
		if used[key] {
			base := name
			n := suffix[key]
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if !used[strings.ToLower(name)] {
					break
				}
			}
			suffix[key] = n
			key = strings.ToLower(name)
		}

		used[key] = true
		h[i] = name
	}
	return h
}

// record is one data row of a table as raw strings.
type record []string

// newRecord create new record.
func newRecord(r []string) record {
	return record(r)
}

// padTo returns the record extended with empty cells up to n fields.
func (r record) padTo(n int) record {
	if len(r) >= n {
		return r
	}
	padded := make(record, n)
	copy(padded, r)
	return padded
}

// isBlank reports whether every cell of the record is empty
func (r record) isBlank() bool {
	for _, cell := range r {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// columnType represents the SQL column type
type columnType int

const (
	// columnTypeText represents TEXT column type
	columnTypeText columnType = iota
	// columnTypeInteger represents INTEGER column type
	columnTypeInteger
	// columnTypeReal represents REAL column type
	columnTypeReal
	// columnTypeBoolean represents true/false columns, stored as INTEGER 1/0
	columnTypeBoolean
)

const (
	sqlTypeText    = "TEXT"
	sqlTypeInteger = "INTEGER"
	sqlTypeReal    = "REAL"
)

// String returns the declared SQL type used in CREATE TABLE
func (ct columnType) String() string {
	switch ct {
	case columnTypeInteger, columnTypeBoolean:
		return sqlTypeInteger
	case columnTypeReal:
		return sqlTypeReal
	default:
		return sqlTypeText
	}
}

// columnInfo represents column information with name and inferred type
type columnInfo struct {
	Name string
	Type columnType
}
