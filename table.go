package sheetsql

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// table represents file contents as database table structure.
type table struct {
	// name is the sanitized table name.
	name string
	// sheet is the workbook sheet the table was read from, empty for single-table files.
	sheet string
	// header is table header.
	header header
	// records is table records, each padded to len(header).
	records []record
	// columnInfo contains inferred type information for each column
	columnInfo []columnInfo
}

// newTable create new table, inferring column types from records.
func newTable(name, sheet string, h header, records []record) *table {
	return &table{
		name:       name,
		sheet:      sheet,
		header:     h,
		records:    records,
		columnInfo: inferColumnsInfo(h, records),
	}
}

// getName return table name.
func (t *table) getName() string {
	return t.name
}

// getHeader return table header.
func (t *table) getHeader() header {
	return t.header
}

// getRecords return table records.
func (t *table) getRecords() []record {
	return t.records
}

// getColumnInfo returns the column information with inferred types
func (t *table) getColumnInfo() []columnInfo {
	return t.columnInfo
}

// isEmpty reports whether the source had no header row at all
func (t *table) isEmpty() bool {
	return len(t.header) == 0
}

// values converts a record into the arguments of an INSERT statement
func (t *table) values(r record) []any {
	args := make([]any, len(t.columnInfo))
	for i, col := range t.columnInfo {
		if i < len(r) {
			args[i] = convertCell(r[i], col.Type)
		}
	}
	return args
}

// tableFromFilePath returns the file base name without compression and type extensions
func tableFromFilePath(filePath string) string {
	fileName := trimCompressionExtension(filepath.Base(filePath))
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// sanitizeTableName derives a table name from a sheet or file name:
// NFC normalized, trimmed, spaces and hyphens replaced with underscores.
func sanitizeTableName(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}
