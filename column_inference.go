package sheetsql

import (
	"math"
	"strconv"
	"strings"
)

// missingValues are cell texts stored as NULL, matching what spreadsheet
// and CSV readers commonly treat as "not available".
var missingValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// isMissing reports whether a cell is stored as NULL. The lookup is exact:
// " NA " and blank-looking cells are text.
func isMissing(value string) bool {
	_, ok := missingValues[value]
	return ok
}

// parseBool accepts the spellings spreadsheets export for booleans only.
// "1" and "0" stay integers.
func parseBool(value string) (bool, bool) {
	switch value {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	default:
		return false, false
	}
}

// parseInteger parses a base-10 int64
func parseInteger(value string) (int64, bool) {
	n, err := strconv.ParseInt(value, 10, 64)
	return n, err == nil
}

// parseReal parses a finite float64. NaN and infinities are not numbers here.
func parseReal(value string) (float64, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// inferColumnType infers the SQL column type from a slice of string values.
// Missing values are ignored; a column without any value is TEXT.
// Priority: TEXT > REAL > INTEGER, and BOOLEAN only when every value is boolean.
func inferColumnType(values []string) columnType {
	var seen, integers, reals, booleans int

	for _, value := range values {
		if isMissing(value) {
			continue
		}
		value = strings.TrimSpace(value)
		seen++

		if _, ok := parseBool(value); ok {
			booleans++
			continue
		}
		if _, ok := parseInteger(value); ok {
			integers++
			continue
		}
		if _, ok := parseReal(value); ok {
			reals++
			continue
		}
		// One text value makes the whole column text
		return columnTypeText
	}

	switch {
	case seen == 0:
		return columnTypeText
	case booleans == seen:
		return columnTypeBoolean
	case booleans > 0:
		return columnTypeText
	case reals > 0:
		return columnTypeReal
	default:
		return columnTypeInteger
	}
}

// inferColumnsInfo infers column information from header and data records
func inferColumnsInfo(h header, records []record) []columnInfo {
	if len(h) == 0 {
		return nil
	}

	columns := make([]columnInfo, len(h))
	values := make([]string, 0, len(records))
	for i, name := range h {
		values = values[:0]
		for _, r := range records {
			if i < len(r) {
				values = append(values, r[i])
			}
		}
		columns[i] = columnInfo{
			Name: name,
			Type: inferColumnType(values),
		}
	}
	return columns
}

// convertCell converts a raw cell into the database value for a column of type ct.
// Missing values become nil (NULL).
func convertCell(value string, ct columnType) any {
	if isMissing(value) {
		return nil
	}

	trimmed := strings.TrimSpace(value)
	switch ct {
	case columnTypeInteger:
		if n, ok := parseInteger(trimmed); ok {
			return n
		}
	case columnTypeReal:
		if f, ok := parseReal(trimmed); ok {
			return f
		}
	case columnTypeBoolean:
		if b, ok := parseBool(trimmed); ok {
			if b {
				return int64(1)
			}
			return int64(0)
		}
	}
	return value
}
