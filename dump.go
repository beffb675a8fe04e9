package sheetsql

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is the longest sheet name a workbook accepts
const maxSheetNameLength = 31

// DumpDatabase exports every table of the SQLite database at dbPath into
// outputDir, one file per table named <table><ext>. It is equivalent to
// DumpDatabaseContext with context.Background().
func DumpDatabase(dbPath, outputDir string, opts ...DumpOptions) error {
	return DumpDatabaseContext(context.Background(), dbPath, outputDir, opts...)
}

// DumpDatabaseContext exports every table of the database at dbPath.
//
// outputDir is created if needed and existing files are overwritten.
// NULL values are written as empty fields. The files can be imported again
// with ImportFile.
func DumpDatabaseContext(ctx context.Context, dbPath, outputDir string, opts ...DumpOptions) error {
	options := NewDumpOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	errCtx := NewErrorContext("dump", dbPath)

	if options.Compression == CompressionBZ2 {
		return errCtx.WithDetails("bzip2 compression cannot be written").Error(ErrUnsupportedFormat)
	}

	db, err := openDatabase(ctx, dbPath)
	if err != nil {
		return errCtx.Error(err)
	}
	defer func() {
		_ = db.Close()
	}()

	tableNames, err := userTables(ctx, db)
	if err != nil {
		return errCtx.Error(err)
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return errCtx.Error(fmt.Errorf("failed to create output directory: %w", err))
	}

	v := newValidator()
	for _, tableName := range tableNames {
		if err := v.validateFileName(tableName); err != nil {
			return errCtx.WithTable(tableName).Error(err)
		}

		outputPath := filepath.Join(outputDir, tableName+options.FileExtension())
		if err := dumpTable(ctx, db, tableName, outputPath, options); err != nil {
			return errCtx.WithTable(tableName).Error(err)
		}
	}
	return nil
}

// tableData is a whole table read back from the database
type tableData struct {
	name    string
	columns []string
	rows    []Row
}

func dumpTable(ctx context.Context, db *sql.DB, tableName, outputPath string, options DumpOptions) (err error) {
	data, err := readTableData(ctx, db, tableName)
	if err != nil {
		return err
	}

	w, cleanup, err := createCompressed(outputPath, options.Compression)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := cleanup(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", outputPath, closeErr)
		}
	}()

	switch options.Format {
	case OutputFormatCSV:
		return writeDelimited(w, data, csvDelimiter)
	case OutputFormatTSV:
		return writeDelimited(w, data, tsvDelimiter)
	case OutputFormatLTSV:
		return writeLTSV(w, data)
	case OutputFormatXLSX:
		return writeXLSX(w, data)
	case OutputFormatParquet:
		return writeParquet(w, data)
	default:
		return fmt.Errorf("%w: output format %v", ErrUnsupportedFormat, options.Format)
	}
}

func readTableData(ctx context.Context, db *sql.DB, tableName string) (*tableData, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdentifier(tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer rows.Close()

	result, err := scanQueryResult(rows)
	if err != nil {
		return nil, err
	}
	return &tableData{name: tableName, columns: result.Columns, rows: result.Rows}, nil
}

// stringRow renders a row as text, NULL becoming the empty string
func stringRow(row Row) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = v.String()
	}
	return cells
}

func writeDelimited(w io.Writer, data *tableData, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := csvWriter.Write(data.columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range data.rows {
		if err := csvWriter.Write(stringRow(row)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// ltsvEscaper keeps values on one line and inside their field
var ltsvEscaper = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func writeLTSV(w io.Writer, data *tableData) error {
	var sb strings.Builder
	for _, row := range data.rows {
		sb.Reset()
		for i, cell := range stringRow(row) {
			if i > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(data.columns[i])
			sb.WriteByte(':')
			sb.WriteString(ltsvEscaper.Replace(cell))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}

func writeXLSX(w io.Writer, data *tableData) error {
	xlsxFile := excelize.NewFile()
	defer func() {
		_ = xlsxFile.Close()
	}()

	sheetName := data.name
	if runes := []rune(sheetName); len(runes) > maxSheetNameLength {
		sheetName = string(runes[:maxSheetNameLength])
	}
	if err := xlsxFile.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerRow := make([]any, len(data.columns))
	for i, col := range data.columns {
		headerRow[i] = col
	}
	if err := xlsxFile.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range data.rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v.Any()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := xlsxFile.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := xlsxFile.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeParquet(w io.Writer, data *tableData) error {
	if len(data.columns) == 0 {
		return errors.New("table has no columns")
	}

	fields := make([]arrow.Field, len(data.columns))
	for i, col := range data.columns {
		fields[i] = arrow.Field{Name: col, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for _, row := range data.rows {
		for j, v := range row {
			fb, ok := builder.Field(j).(*array.StringBuilder)
			if !ok {
				return fmt.Errorf("unexpected builder for column %s", data.columns[j])
			}
			if v.IsNull() {
				fb.AppendNull()
				continue
			}
			fb.Append(v.String())
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer tbl.Release()

	// WriteTable closes its sink when it implements io.Closer; the caller owns w.
	sink := struct{ io.Writer }{w}
	chunkSize := max(tbl.NumRows(), 1)
	if err := pqarrow.WriteTable(tbl, sink, chunkSize, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}
