package sheetsql

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// tableProcessor is called once per table read from a source, in source order.
// Returning an error stops reading.
type tableProcessor func(t *table) error

// eachTable reads the source and calls fn for every table it contains.
// Workbooks yield one table per non-empty sheet; other formats yield exactly one.
func (f *file) eachTable(ctx context.Context, fn tableProcessor) error {
	reader, cleanup, err := openDecompressed(f.getPath(), f.compression)
	if err != nil {
		return err
	}
	defer func() {
		_ = cleanup()
	}()

	name := sanitizeTableName(tableFromFilePath(f.getPath()))

	switch f.getFileType() {
	case FileTypeCSV:
		return emit(ctx, fn, func() (*table, error) { return parseDelimited(reader, csvDelimiter, name) })
	case FileTypeTSV:
		return emit(ctx, fn, func() (*table, error) { return parseDelimited(reader, tsvDelimiter, name) })
	case FileTypeLTSV:
		return emit(ctx, fn, func() (*table, error) { return parseLTSV(reader, name) })
	case FileTypeParquet:
		return emit(ctx, fn, func() (*table, error) { return parseParquet(ctx, reader, name) })
	case FileTypeXLSX:
		return parseWorkbook(ctx, reader, fn)
	case FileTypeXLS:
		return parseLegacyWorkbook(ctx, reader, fn)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.getPath())
	}
}

func emit(ctx context.Context, fn tableProcessor, parse func() (*table, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := parse()
	if err != nil {
		return err
	}
	return fn(t)
}

// newTextDecoder strips a UTF-8 BOM and decodes UTF-16 input announced by a BOM.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func newTextDecoder(r io.Reader) io.Reader {
	return transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))
}

// parseDelimited parses CSV or TSV data. The first row is the header.
// Short rows are padded with empty cells; rows longer than the header are invalid.
func parseDelimited(r io.Reader, delimiter rune, tableName string) (*table, error) {
	csvReader := csv.NewReader(newTextDecoder(r))
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	first, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", ErrEmptyData)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	h := newHeader(first)
	records := make([]record, 0)
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
		if len(row) > len(h) {
			line, _ := csvReader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrInvalidData, line, len(row), len(h))
		}
		records = append(records, newRecord(row).padTo(len(h)))
	}

	return newTable(tableName, "", h, records), nil
}

// parseLTSV parses labeled tab-separated values. The header is the union of
// labels in the order they first appear; absent labels are empty.
func parseLTSV(r io.Reader, tableName string) (*table, error) {
	scanner := bufio.NewScanner(newTextDecoder(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		labels []string
		index  = make(map[string]int)
		rows   []map[string]string
	)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		row := make(map[string]string)
		for field := range strings.SplitSeq(line, "\t") {
			label, value, ok := strings.Cut(field, ":")
			if !ok {
				return nil, fmt.Errorf("%w: LTSV field %q has no label", ErrInvalidData, field)
			}
			label = strings.TrimSpace(label)
			if _, seen := index[label]; !seen {
				index[label] = len(labels)
				labels = append(labels, label)
			}
			row[label] = value
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no LTSV records", ErrEmptyData)
	}

	records := make([]record, 0, len(rows))
	for _, row := range rows {
		rec := make(record, len(labels))
		for label, value := range row {
			rec[index[label]] = value
		}
		records = append(records, rec)
	}

	return newTable(tableName, "", newHeader(labels), records), nil
}

// parseParquet reads a whole Parquet file. Parquet needs random access,
// so compressed or not the data is buffered in memory first.
func parseParquet(ctx context.Context, r io.Reader, tableName string) (*table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty parquet file", ErrEmptyData)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	defer tbl.Release()

	schema := tbl.Schema()
	names := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		names[i] = field.Name
	}
	h := newHeader(names)

	tableReader := array.NewTableReader(tbl, 0)
	defer tableReader.Release()

	records := make([]record, 0, tbl.NumRows())
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			row := make(record, batch.NumCols())
			for j, col := range batch.Columns() {
				if col.IsNull(i) {
					continue
				}
				row[j] = col.ValueStr(i)
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}

	return newTable(tableName, "", h, records), nil
}

// tableFromRows builds a table from sheet rows. The first non-blank row is
// the header; later blank rows are skipped. The header is widened with
// unnamed columns when a data row is longer.
func tableFromRows(name, sheet string, rows [][]string) *table {
	var (
		headerRow []string
		records   []record
		width     int
	)

	for _, row := range rows {
		rec := newRecord(row)
		if rec.isBlank() {
			continue
		}
		if headerRow == nil {
			headerRow = row
			width = len(row)
			continue
		}
		width = max(width, len(rec))
		records = append(records, rec)
	}

	if headerRow == nil {
		return newTable(name, sheet, nil, nil)
	}

	cells := make([]string, width)
	copy(cells, headerRow)
	h := newHeader(cells)

	for i, rec := range records {
		records[i] = rec.padTo(width)
	}
	if records == nil {
		records = make([]record, 0)
	}
	return newTable(name, sheet, h, records)
}
