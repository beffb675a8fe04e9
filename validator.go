package sheetsql

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxIdentifierLength is the longest table name accepted, in runes
const maxIdentifierLength = 128

// validator checks inputs before any database work happens
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateSource checks the extension first, so unsupported files never touch the database
func (v *validator) validateSource(f *file) error {
	if strings.TrimSpace(f.getPath()) == "" {
		return fmt.Errorf("%w: path cannot be empty", ErrFileNotFound)
	}
	if !isSupportedFile(f.getPath()) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.getPath())
	}

	info, err := os.Stat(f.getPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, f.getPath())
		}
		return fmt.Errorf("failed to stat path %s: %w", f.getPath(), err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidData, f.getPath())
	}
	return nil
}

// validateIdentifier checks a table name: 1 to 128 runes of valid UTF-8
// without control characters. Table names are always quoted, so any other
// character is allowed.
func (v *validator) validateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidIdentifier)
	}
	if utf8.RuneCountInString(name) > maxIdentifierLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidIdentifier, name, maxIdentifierLength)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidIdentifier, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidIdentifier, name)
		}
	}
	return nil
}

// validateFileName checks that a table name can be used as an output file name
// inside the dump directory.
func (v *validator) validateFileName(name string) error {
	if err := v.validateIdentifier(name); err != nil {
		return err
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\:*?"<>|`) {
		return fmt.Errorf("%w: %q cannot be used as a file name", ErrInvalidIdentifier, name)
	}
	return nil
}

// validateColumnName accepts any printable column name; column names are always quoted.
func (v *validator) validateColumnName(name string) error {
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: column name %q is not valid UTF-8", ErrInvalidIdentifier, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: column name %q contains a control character", ErrInvalidIdentifier, name)
		}
	}
	return nil
}

// validateQuery rejects blank SQL text
func (v *validator) validateQuery(sqlText string) error {
	if strings.TrimSpace(sqlText) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// quoteIdentifier quotes an identifier for SQLite, doubling embedded quotes
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
