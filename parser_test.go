package sheetsql

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelimited(t *testing.T) {
	t.Parallel()

	t.Run("csv with header and rows", func(t *testing.T) {
		t.Parallel()

		tbl, err := parseDelimited(strings.NewReader("id,name\n1,alice\n2,bob\n"), csvDelimiter, "users")
		require.NoError(t, err)
		assert.Equal(t, "users", tbl.getName())
		assert.Equal(t, header{"id", "name"}, tbl.getHeader())
		assert.Len(t, tbl.getRecords(), 2)
	})

	t.Run("tsv", func(t *testing.T) {
		t.Parallel()

		tbl, err := parseDelimited(strings.NewReader("a\tb\n1\t2\n"), tsvDelimiter, "t")
		require.NoError(t, err)
		assert.Equal(t, header{"a", "b"}, tbl.getHeader())
		assert.Equal(t, record{"1", "2"}, tbl.getRecords()[0])
	})

	t.Run("utf-8 BOM is stripped from the first header", func(t *testing.T) {
		t.Parallel()

		tbl, err := parseDelimited(strings.NewReader("\ufeffid,name\n1,x\n"), csvDelimiter, "t")
		require.NoError(t, err)
		assert.Equal(t, "id", tbl.getHeader()[0])
	})

	t.Run("utf-16 with BOM is decoded", func(t *testing.T) {
		t.Parallel()

		// "a,b\n1,2\n" in UTF-16LE with BOM
		var buf bytes.Buffer
		buf.Write([]byte{0xFF, 0xFE})
		for _, r := range "a,b\n1,2\n" {
			buf.Write([]byte{byte(r), 0})
		}

		tbl, err := parseDelimited(&buf, csvDelimiter, "t")
		require.NoError(t, err)
		assert.Equal(t, header{"a", "b"}, tbl.getHeader())
		assert.Equal(t, record{"1", "2"}, tbl.getRecords()[0])
	})

	t.Run("short rows are padded and blank lines skipped", func(t *testing.T) {
		t.Parallel()

		tbl, err := parseDelimited(strings.NewReader("a,b,c\n1\n\n2,3\n"), csvDelimiter, "t")
		require.NoError(t, err)
		require.Len(t, tbl.getRecords(), 2)
		assert.Equal(t, record{"1", "", ""}, tbl.getRecords()[0])
		assert.Equal(t, record{"2", "3", ""}, tbl.getRecords()[1])
	})

	t.Run("over-long row is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := parseDelimited(strings.NewReader("a,b\n1,2,3\n"), csvDelimiter, "t")
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, err := parseDelimited(strings.NewReader(""), csvDelimiter, "t")
		assert.ErrorIs(t, err, ErrEmptyData)
	})

	t.Run("header only gives an empty table", func(t *testing.T) {
		t.Parallel()

		tbl, err := parseDelimited(strings.NewReader("a,b\n"), csvDelimiter, "t")
		require.NoError(t, err)
		assert.False(t, tbl.isEmpty())
		assert.Empty(t, tbl.getRecords())
	})

	t.Run("duplicate and empty headers are renamed", func(t *testing.T) {
		t.Parallel()

		tbl, err := parseDelimited(strings.NewReader("x,,x\n1,2,3\n"), csvDelimiter, "t")
		require.NoError(t, err)
		assert.Equal(t, header{"x", "Unnamed: 1", "x.1"}, tbl.getHeader())
	})
}

func TestParseLTSV(t *testing.T) {
	t.Parallel()

	t.Run("labels in first-seen order", func(t *testing.T) {
		t.Parallel()

		input := "host:a\tstatus:200\n\nstatus:404\thost:b\tsize:10\n"
		tbl, err := parseLTSV(strings.NewReader(input), "access")
		require.NoError(t, err)
		assert.Equal(t, header{"host", "status", "size"}, tbl.getHeader())
		assert.Equal(t, []record{{"a", "200", ""}, {"b", "404", "10"}}, tbl.getRecords())
	})

	t.Run("value may contain colons", func(t *testing.T) {
		t.Parallel()

		tbl, err := parseLTSV(strings.NewReader("time:12:30:00\n"), "t")
		require.NoError(t, err)
		assert.Equal(t, "12:30:00", tbl.getRecords()[0][0])
	})

	t.Run("field without label", func(t *testing.T) {
		t.Parallel()

		_, err := parseLTSV(strings.NewReader("host:a\tbroken\n"), "t")
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, err := parseLTSV(strings.NewReader("\n\n"), "t")
		assert.ErrorIs(t, err, ErrEmptyData)
	})
}

func TestTableFromRows(t *testing.T) {
	t.Parallel()

	t.Run("leading blank rows are skipped", func(t *testing.T) {
		t.Parallel()

		rows := [][]string{{}, {"", ""}, {"id", "name"}, {"1", "a"}, {}, {"2"}}
		tbl := tableFromRows("s", "S", rows)
		assert.Equal(t, header{"id", "name"}, tbl.getHeader())
		assert.Equal(t, []record{{"1", "a"}, {"2", ""}}, tbl.getRecords())
	})

	t.Run("wider data rows widen the header", func(t *testing.T) {
		t.Parallel()

		tbl := tableFromRows("s", "S", [][]string{{"a"}, {"1", "2"}})
		assert.Equal(t, header{"a", "Unnamed: 1"}, tbl.getHeader())
	})

	t.Run("blank sheet", func(t *testing.T) {
		t.Parallel()

		assert.True(t, tableFromRows("s", "S", nil).isEmpty())
		assert.True(t, tableFromRows("s", "S", [][]string{{" "}}).isEmpty())
	})
}

func TestParseParquet(t *testing.T) {
	t.Parallel()

	t.Run("round trip through the parquet writer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		data := &tableData{
			name:    "items",
			columns: []string{"id", "label"},
			rows: []Row{
				{IntegerValue(1), TextValue("a")},
				{IntegerValue(2), NullValue()},
			},
		}
		require.NoError(t, writeParquet(&buf, data))

		tbl, err := parseParquet(context.Background(), &buf, "items")
		require.NoError(t, err)
		assert.Equal(t, header{"id", "label"}, tbl.getHeader())
		assert.Equal(t, []record{{"1", "a"}, {"2", ""}}, tbl.getRecords())
		assert.Equal(t, columnTypeInteger, tbl.getColumnInfo()[0].Type)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, err := parseParquet(context.Background(), bytes.NewReader(nil), "t")
		assert.ErrorIs(t, err, ErrEmptyData)
	})

	t.Run("garbage input", func(t *testing.T) {
		t.Parallel()

		_, err := parseParquet(context.Background(), strings.NewReader("not parquet at all"), "t")
		assert.ErrorIs(t, err, ErrInvalidData)
	})
}
