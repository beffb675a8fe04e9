package sheetsql

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidator_ValidateIdentifier(t *testing.T) {
	t.Parallel()

	v := newValidator()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"ascii", "users", false},
		{"underscore and digits", "My_Data_2024", false},
		{"leading digit", "2024_sales", false},
		{"unicode letters", "ventas_año", false},
		{"japanese", "売上", false},
		{"space and parentheses", "Sheet (2)", false},
		{"ampersand", "P&L", false},
		{"dot", "sales.2024", false},
		{"quote", `a"b`, false},
		{"semicolon", "t; DROP TABLE x", false},
		{"empty", "", true},
		{"tab", "a\tb", true},
		{"nul", "a\x00b", true},
		{"invalid utf-8", "\xff", true},
		{"max length", strings.Repeat("a", maxIdentifierLength), false},
		{"too long", strings.Repeat("a", maxIdentifierLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := v.validateIdentifier(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIdentifier) {
					t.Errorf("validateIdentifier(%q) = %v, want ErrInvalidIdentifier", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("validateIdentifier(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestValidator_ValidateFileName(t *testing.T) {
	t.Parallel()

	v := newValidator()
	for _, ok := range []string{"users", "sales.2024", "Sheet (2)", "P&L"} {
		if err := v.validateFileName(ok); err != nil {
			t.Errorf("validateFileName(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", ".", "..", "../escape", `a\b`, "a:b", "what?", "x\ny"} {
		if err := v.validateFileName(bad); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("validateFileName(%q) = %v, want ErrInvalidIdentifier", bad, err)
		}
	}
}

func TestValidator_ValidateColumnName(t *testing.T) {
	t.Parallel()

	v := newValidator()
	for _, ok := range []string{"id", "Unnamed: 0", "price (USD)", "a.1", `say "hi"`} {
		if err := v.validateColumnName(ok); err != nil {
			t.Errorf("validateColumnName(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"a\x00b", "line\nbreak", "\xff"} {
		if err := v.validateColumnName(bad); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("validateColumnName(%q) = %v, want ErrInvalidIdentifier", bad, err)
		}
	}
}

func TestValidator_ValidateSource(t *testing.T) {
	t.Parallel()

	v := newValidator()
	dir := t.TempDir()
	existing := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(existing, []byte("a\n1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := v.validateSource(newFile(existing)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.validateSource(newFile(filepath.Join(dir, "notes.txt"))); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if err := v.validateSource(newFile(filepath.Join(dir, "missing.csv"))); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
	if err := v.validateSource(newFile("")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound for empty path, got %v", err)
	}

	sub := filepath.Join(dir, "folder.csv")
	if err := os.Mkdir(sub, 0750); err != nil {
		t.Fatal(err)
	}
	if err := v.validateSource(newFile(sub)); !errors.Is(err, ErrInvalidData) {
		t.Errorf("expected ErrInvalidData for directory, got %v", err)
	}
}

func TestValidator_ValidateQuery(t *testing.T) {
	t.Parallel()

	v := newValidator()
	if err := v.validateQuery("SELECT 1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.validateQuery("  \n\t "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"users":   `"users"`,
		`a"b`:     `"a""b"`,
		"Unnamed: 0": `"Unnamed: 0"`,
	}
	for in, want := range tests {
		if got := quoteIdentifier(in); got != want {
			t.Errorf("quoteIdentifier(%q) = %s, want %s", in, got, want)
		}
	}
}
