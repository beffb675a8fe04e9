package sheetsql

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Kind is the storage class of a Value
type Kind int

const (
	// KindNull represents SQL NULL
	KindNull Kind = iota
	// KindInteger represents a 64-bit signed integer
	KindInteger
	// KindReal represents a 64-bit float
	KindReal
	// KindText represents a UTF-8 string
	KindText
	// KindBlob represents raw bytes
	KindBlob
)

// String returns the SQLite storage class name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInteger:
		return sqlTypeInteger
	case KindReal:
		return sqlTypeReal
	case KindText:
		return sqlTypeText
	case KindBlob:
		return "BLOB"
	default:
		return "NULL"
	}
}

// Value is one cell of a query result.
// The zero Value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    []byte
}

// NullValue returns a NULL value
func NullValue() Value {
	return Value{}
}

// IntegerValue returns an INTEGER value
func IntegerValue(v int64) Value {
	return Value{kind: KindInteger, i: v}
}

// RealValue returns a REAL value
func RealValue(v float64) Value {
	return Value{kind: KindReal, f: v}
}

// TextValue returns a TEXT value
func TextValue(v string) Value {
	return Value{kind: KindText, s: v}
}

// BlobValue returns a BLOB value. The slice is copied.
func BlobValue(v []byte) Value {
	b := make([]byte, len(v))
	copy(b, v)
	return Value{kind: KindBlob, b: b}
}

// valueOf converts a value scanned from database/sql into a Value.
func valueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return NullValue()
	case int64:
		return IntegerValue(t)
	case int:
		return IntegerValue(int64(t))
	case int32:
		return IntegerValue(int64(t))
	case bool:
		if t {
			return IntegerValue(1)
		}
		return IntegerValue(0)
	case float64:
		return RealValue(t)
	case float32:
		return RealValue(float64(t))
	case string:
		return TextValue(t)
	case []byte:
		return BlobValue(t)
	case time.Time:
		return TextValue(t.Format(sqliteTimeFormat))
	default:
		return TextValue(fmt.Sprint(t))
	}
}

// sqliteTimeFormat is the layout the SQLite driver uses when it writes time.Time values
const sqliteTimeFormat = "2006-01-02 15:04:05.999999999-07:00"

// Kind returns the storage class of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is SQL NULL
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Int returns the integer content. REAL values are truncated, other kinds return 0.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindReal:
		return int64(v.f)
	default:
		return 0
	}
}

// Float returns the numeric content as float64, or 0 for non-numeric kinds.
func (v Value) Float() float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.i)
	case KindReal:
		return v.f
	default:
		return 0
	}
}

// Bytes returns the BLOB or TEXT content as bytes
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindBlob:
		return v.b
	case KindText:
		return []byte(v.s)
	default:
		return nil
	}
}

// String formats the value as text. NULL formats as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	case KindBlob:
		return string(v.b)
	default:
		return ""
	}
}

// Any returns the value as nil, int64, float64, string or []byte.
func (v Value) Any() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindReal:
		return v.f
	case KindText:
		return v.s
	case KindBlob:
		return v.b
	default:
		return nil
	}
}

// Row is one result row, values in statement-defined column order
type Row []Value

// QueryResult holds every row returned by a SELECT statement
type QueryResult struct {
	// Columns are the result column names in statement order
	Columns []string
	// Rows are the fetched rows; each has len(Columns) values
	Rows []Row
}

// Len returns the number of rows
func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// scanQueryResult drains rows into a QueryResult. It does not close rows.
func scanQueryResult(rows *sql.Rows) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &QueryResult{
		Columns: columns,
		Rows:    []Row{},
	}

	raw := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(Row, len(columns))
		for i, v := range raw {
			row[i] = valueOf(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return result, nil
}
