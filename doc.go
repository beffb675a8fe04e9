// Package sheetsql loads spreadsheet and delimited-text files into a SQLite
// database file and offers small helpers to query and inspect it.
//
// It is meant for quick local analysis: point it at a workbook or a CSV file,
// get a database you can query with any SQLite tool, no server required.
//
// # Features
//
//   - Import Excel workbooks (.xlsx, .xlsm, .xls), one table per sheet
//   - Import CSV, TSV, LTSV and Parquet files, one table per file
//   - Automatic handling of compressed files (gzip, bzip2, xz, zstandard)
//   - Column types inferred from the data (INTEGER, REAL, TEXT), empty cells stored as NULL
//   - Run SQL, list tables and list columns of an existing database file
//   - Export every table back to files with DumpDatabase
//
// # Basic Usage
//
//	result, err := sheetsql.ImportFile("sales.xlsx", "sales.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range result.Tables {
//	    fmt.Println(t.Name, t.Rows)
//	}
//
//	rows, err := sheetsql.RunQuery("SELECT * FROM Q1_Sales", "sales.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rows.Columns, rows.Len())
//
// Every operation opens its own connection and closes it before returning.
// Status messages are printed to os.Stdout; redirect or silence them with
// NewOptions().WithOutput(w).
//
// # Table Naming
//
// Table names are derived from the source:
//   - sheet " Q1 Sales " of any workbook becomes table "Q1_Sales"
//   - "My Data-2024.csv" becomes table "My_Data_2024"
//   - "logs.ltsv.gz" becomes table "logs"
//
// Names are trimmed and spaces and hyphens become underscores. Names are
// always quoted in SQL, so "Sheet (2)" or "sales.2024" are valid; an empty
// name, a control character or more than 128 characters fails the import
// with ErrInvalidIdentifier.
//
// Importing replaces any existing table with the same name. Each table is
// replaced in its own transaction, so a failing import never leaves a
// half-written table behind.
//
// # SQL Syntax
//
// RunQuery passes the SQL text to SQLite unchanged; see
// https://www.sqlite.org/lang.html. Statements starting with SELECT return
// their rows, anything else returns a nil result after it has been committed.
package sheetsql
