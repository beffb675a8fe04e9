package sheetsql

import (
	"errors"
	"fmt"
	"strings"
)

// Standard errors returned (wrapped) by every operation of the package
var (
	// ErrUnsupportedFormat indicates a source file whose extension is not importable
	ErrUnsupportedFormat = errors.New("sheetsql: unsupported file format")

	// ErrEmptyData indicates that the data source contains no records
	ErrEmptyData = errors.New("sheetsql: empty data source")

	// ErrInvalidData indicates malformed or unparseable source data
	ErrInvalidData = errors.New("sheetsql: invalid data format")

	// ErrNoSheets indicates a workbook without any sheet
	ErrNoSheets = errors.New("sheetsql: no sheets found in workbook")

	// ErrFileNotFound indicates file not found
	ErrFileNotFound = errors.New("sheetsql: file not found")

	// ErrInvalidIdentifier indicates a table or column name rejected before it reaches SQL text
	ErrInvalidIdentifier = errors.New("sheetsql: invalid SQL identifier")

	// ErrEmptyQuery indicates an empty SQL statement
	ErrEmptyQuery = errors.New("sheetsql: empty SQL statement")

	// ErrEmptyDatabasePath indicates that no database file was given
	ErrEmptyDatabasePath = errors.New("sheetsql: database path cannot be empty")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error wraps baseErr with the collected context. errors.Is still matches baseErr.
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{fmt.Sprintf("sheetsql: %s failed", ec.Operation)}

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	msg := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", msg, baseErr)
	}
	return errors.New(msg)
}
