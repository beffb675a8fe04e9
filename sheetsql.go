package sheetsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// driverName is the database/sql driver registered by modernc.org/sqlite
const driverName = "sqlite"

// ImportedTable describes one table written by ImportFile.
type ImportedTable struct {
	// Name is the table name in the database.
	Name string
	// Source is the sheet name for workbooks, or the file path otherwise.
	Source string
	// Rows is the number of data rows inserted.
	Rows int
	// Columns is the number of columns of the table.
	Columns int
	// Replaced is true when a table with the same name existed and was dropped.
	Replaced bool
}

// ImportResult is the outcome of ImportFile.
type ImportResult struct {
	// Source is the imported file path.
	Source string
	// FileType is the detected format of the file, ignoring compression.
	FileType FileType
	// Tables lists the written tables in file order.
	Tables []ImportedTable
}

// ImportFile loads a spreadsheet or delimited-text file into the SQLite database
// at dbPath. It is equivalent to ImportFileContext with context.Background().
func ImportFile(filePath, dbPath string, opts ...Options) (*ImportResult, error) {
	return ImportFileContext(context.Background(), filePath, dbPath, opts...)
}

// ImportFileContext loads filePath into the SQLite database at dbPath.
//
// Workbooks (.xlsx, .xlsm, .xls) become one table per non-empty sheet, named
// after the sheet. Every other format becomes one table named after the file.
// Names are normalized: surrounding spaces trimmed, inner spaces and hyphens
// replaced with underscores. An existing table of the same name is replaced.
//
// The extension is checked before the database is touched: an unsupported
// file returns ErrUnsupportedFormat and leaves dbPath as it was.
//
// The first failure stops the import. Tables written before it remain, and
// the partial result is returned together with the error.
func ImportFileContext(ctx context.Context, filePath, dbPath string, opts ...Options) (*ImportResult, error) {
	options := resolveOptions(opts)
	out := newReporter(options.Output)
	errCtx := NewErrorContext("import", filePath)

	f := newFile(filePath)
	if err := newValidator().validateSource(f); err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			out.fail("Unsupported file format. Supported: .xlsx, .xlsm, .xls, .csv, .tsv, .ltsv, .parquet (optionally .gz, .bz2, .xz, .zst).")
		} else {
			out.fail("Error during import: %v", err)
		}
		return nil, errCtx.Error(err)
	}

	db, err := openDatabase(ctx, dbPath)
	if err != nil {
		out.fail("Error during import: %v", err)
		return nil, errCtx.Error(err)
	}
	defer closeDatabase(db, out)

	result := &ImportResult{
		Source:   filePath,
		FileType: f.getFileType(),
		Tables:   make([]ImportedTable, 0),
	}
	writer := newTableWriter(db)

	var current string
	err = f.eachTable(ctx, func(t *table) error {
		current = t.getName()
		if t.isEmpty() {
			out.warn("Sheet '%s' is empty, skipped.", t.sheet)
			return nil
		}

		replaced, err := writer.write(ctx, t)
		if err != nil {
			return err
		}
		if replaced {
			out.info("Existing table '%s' was replaced.", t.getName())
		}

		source := filePath
		if f.getFileType().isSpreadsheet() {
			source = t.sheet
			out.success("Sheet '%s' imported as table '%s'.", t.sheet, t.getName())
		} else {
			out.success("File '%s' imported as table '%s'.", filePath, t.getName())
		}

		result.Tables = append(result.Tables, ImportedTable{
			Name:     t.getName(),
			Source:   source,
			Rows:     len(t.getRecords()),
			Columns:  len(t.getHeader()),
			Replaced: replaced,
		})
		return nil
	})
	if err != nil {
		out.fail("Error during import: %v", err)
		return result, errCtx.WithTable(current).Error(err)
	}
	return result, nil
}

// RunQuery executes sqlText against the database at dbPath.
// It is equivalent to RunQueryContext with context.Background().
func RunQuery(sqlText, dbPath string, opts ...Options) (*QueryResult, error) {
	return RunQueryContext(context.Background(), sqlText, dbPath, opts...)
}

// RunQueryContext executes sqlText verbatim.
//
// When the statement starts with SELECT (case-insensitive, leading spaces
// ignored) every row is returned. Any other statement is executed and
// committed, and the result is nil.
//
// The SQL text is not parameterized: never build it from untrusted input.
func RunQueryContext(ctx context.Context, sqlText, dbPath string, opts ...Options) (*QueryResult, error) {
	options := resolveOptions(opts)
	out := newReporter(options.Output)

	if err := newValidator().validateQuery(sqlText); err != nil {
		out.fail("Error executing query: %v", err)
		return nil, err
	}

	db, err := openDatabase(ctx, dbPath)
	if err != nil {
		out.fail("Error executing query: %v", err)
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()

	if !isSelect(sqlText) {
		if _, err := db.ExecContext(ctx, sqlText); err != nil {
			out.fail("Error executing query: %v", err)
			return nil, fmt.Errorf("failed to execute statement: %w", err)
		}
		return nil, nil //nolint:nilnil // write statements have no result
	}

	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		out.fail("Error executing query: %v", err)
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	result, err := scanQueryResult(rows)
	if err != nil {
		out.fail("Error executing query: %v", err)
		return nil, err
	}
	return result, nil
}

// isSelect reports whether the statement returns rows
func isSelect(sqlText string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(sqlText)), "select")
}

// ListTables returns the table names of the database at dbPath.
// It is equivalent to ListTablesContext with context.Background().
func ListTables(dbPath string, opts ...Options) ([]string, error) {
	return ListTablesContext(context.Background(), dbPath, opts...)
}

// ListTablesContext returns the table names in catalog order and prints them.
// An empty database yields an empty slice and a warning.
func ListTablesContext(ctx context.Context, dbPath string, opts ...Options) ([]string, error) {
	options := resolveOptions(opts)
	out := newReporter(options.Output)

	db, err := openDatabase(ctx, dbPath)
	if err != nil {
		out.fail("Error listing tables: %v", err)
		return []string{}, err
	}
	defer closeDatabase(db, out)

	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		out.fail("Error listing tables: %v", err)
		return []string{}, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables, err := scanStrings(rows)
	if err != nil {
		out.fail("Error listing tables: %v", err)
		return []string{}, err
	}

	if len(tables) == 0 {
		out.warn("There are no tables in the database.")
		return tables, nil
	}
	out.list(prefixTables, "Tables in the database:", tables)
	return tables, nil
}

// ListColumns returns the column names of tableName.
// It is equivalent to ListColumnsContext with context.Background().
func ListColumns(dbPath, tableName string, opts ...Options) ([]string, error) {
	return ListColumnsContext(context.Background(), dbPath, tableName, opts...)
}

// ListColumnsContext returns the column names of tableName in declaration
// order and prints them. An unknown table yields an empty slice and a warning.
// The name is matched exactly as stored, so tables created with quoted names
// can be listed too. An empty name returns ErrInvalidIdentifier.
func ListColumnsContext(ctx context.Context, dbPath, tableName string, opts ...Options) ([]string, error) {
	options := resolveOptions(opts)
	out := newReporter(options.Output)

	if tableName == "" {
		err := fmt.Errorf("%w: name cannot be empty", ErrInvalidIdentifier)
		out.fail("Error listing columns: %v", err)
		return []string{}, err
	}

	db, err := openDatabase(ctx, dbPath)
	if err != nil {
		out.fail("Error listing columns: %v", err)
		return []string{}, err
	}
	defer closeDatabase(db, out)

	columns, err := tableColumns(ctx, db, tableName)
	if err != nil {
		out.fail("Error listing columns: %v", err)
		return []string{}, err
	}

	if len(columns) == 0 {
		out.warn("Table '%s' does not exist or has no columns.", tableName)
		return columns, nil
	}
	out.list(prefixColumns, fmt.Sprintf("Columns of table '%s':", tableName), columns)
	return columns, nil
}

// openDatabase opens the SQLite file at dbPath with a single connection.
// The file is created if it does not exist.
func openDatabase(ctx context.Context, dbPath string) (*sql.DB, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, ErrEmptyDatabasePath
	}

	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// closeDatabase releases the connection and reports it.
func closeDatabase(db *sql.DB, out *reporter) {
	if err := db.Close(); err != nil {
		out.fail("Error closing database: %v", err)
		return
	}
	out.released()
}
