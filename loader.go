package sheetsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// tableWriter stores parsed tables into a SQLite database.
type tableWriter struct {
	db        *sql.DB
	validator *validator
}

// newTableWriter creates a writer for db
func newTableWriter(db *sql.DB) *tableWriter {
	return &tableWriter{
		db:        db,
		validator: newValidator(),
	}
}

// write replaces the table named t.getName() with the contents of t.
// Drop, create and insert run in one transaction, so a failure leaves
// the previous table (if any) untouched. It reports whether a table was replaced.
func (w *tableWriter) write(ctx context.Context, t *table) (replaced bool, err error) {
	if err := w.validator.validateIdentifier(t.getName()); err != nil {
		return false, err
	}
	for _, name := range t.getHeader() {
		if err := w.validator.validateColumnName(name); err != nil {
			return false, err
		}
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	replaced, err = tableExists(ctx, tx, t.getName())
	if err != nil {
		return false, err
	}

	quoted := quoteIdentifier(t.getName())
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return false, fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createTableQuery(t)); err != nil {
		return false, fmt.Errorf("failed to create table: %w", err)
	}

	if len(t.getRecords()) > 0 {
		if err = insertRecords(ctx, tx, t); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return replaced, nil
}

// createTableQuery builds CREATE TABLE with one typed column per header cell
func createTableQuery(t *table) string {
	columns := make([]string, 0, len(t.getColumnInfo()))
	for _, col := range t.getColumnInfo() {
		columns = append(columns, fmt.Sprintf("%s %s", quoteIdentifier(col.Name), col.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdentifier(t.getName()), strings.Join(columns, ", "))
}

func insertRecords(ctx context.Context, tx *sql.Tx, t *table) error {
	placeholders := make([]string, len(t.getColumnInfo()))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	query := fmt.Sprintf(
		"INSERT INTO %s VALUES (%s)",
		quoteIdentifier(t.getName()),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range t.getRecords() {
		if _, err := stmt.ExecContext(ctx, t.values(r)...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// tableExists reports whether a table with the given name exists.
// SQLite table names are case-insensitive, and so is this check.
func tableExists(ctx context.Context, q querier, name string) (bool, error) {
	var found string
	err := q.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE", name,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	return true, nil
}

// userTables returns the names of user tables in creation order.
func userTables(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// tableColumns returns the column names of a table in declaration order.
func tableColumns(ctx context.Context, q querier, name string) ([]string, error) {
	rows, err := q.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", name)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return names, nil
}
