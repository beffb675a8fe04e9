package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/sheetsql"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")
	csvPath := filepath.Join(dir, "fruits.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,qty\napple,3\npear,\n"), 0600))

	code, stdout, stderr := runCLI(t, "import", dbPath, csvPath)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "✅ File '"+csvPath+"' imported as table 'fruits'.")

	t.Run("query prints csv when not a terminal", func(t *testing.T) {
		t.Parallel()

		code, stdout, _ := runCLI(t, "-q", "query", dbPath, "SELECT name, qty FROM fruits ORDER BY name")
		assert.Equal(t, 0, code)
		assert.Equal(t, "name,qty\napple,3\npear,\n", stdout)
	})

	t.Run("tables", func(t *testing.T) {
		t.Parallel()

		code, stdout, _ := runCLI(t, "tables", dbPath)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, " - fruits\n")
	})

	t.Run("columns", func(t *testing.T) {
		t.Parallel()

		code, stdout, _ := runCLI(t, "columns", dbPath, "fruits")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, " - name\n - qty\n")
	})

	t.Run("quiet flag silences status messages", func(t *testing.T) {
		t.Parallel()

		code, stdout, _ := runCLI(t, "-q", "tables", dbPath)
		assert.Equal(t, 0, code)
		assert.Empty(t, stdout)
	})

	t.Run("dump", func(t *testing.T) {
		t.Parallel()

		outDir := filepath.Join(t.TempDir(), "out")
		code, _, stderr := runCLI(t, "dump", "-format", "tsv", "-compress", "gz", dbPath, outDir)
		require.Equal(t, 0, code, stderr)

		_, err := os.Stat(filepath.Join(outDir, "fruits.tsv.gz"))
		assert.NoError(t, err)
	})
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"explode"}, 2},
		{"import without files", []string{"import", dbPath}, 2},
		{"query without sql", []string{"query", dbPath}, 2},
		{"unsupported file", []string{"-q", "import", dbPath, filepath.Join(dir, "a.txt")}, 1},
		{"bad sql", []string{"-q", "query", dbPath, "SELEC nonsense"}, 1},
		{"empty table name", []string{"-q", "columns", dbPath, ""}, 1},
		{"unknown dump format", []string{"dump", "-format", "json", dbPath, dir}, 1},
		{"bzip2 dump", []string{"dump", "-compress", "bz2", dbPath, dir}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestRenderCSV(t *testing.T) {
	t.Parallel()

	result := &sheetsql.QueryResult{
		Columns: []string{"a", "b"},
		Rows: []sheetsql.Row{
			{sheetsql.IntegerValue(1), sheetsql.TextValue("x,y")},
			{sheetsql.RealValue(2.5), sheetsql.NullValue()},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, result))
	assert.Equal(t, "a,b\n1,\"x,y\"\n2.5,\n", buf.String())
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	result := &sheetsql.QueryResult{
		Columns: []string{"name"},
		Rows:    []sheetsql.Row{{sheetsql.TextValue("alice")}, {sheetsql.NullValue()}},
	}

	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, result))
	assert.Contains(t, buf.String(), "name")
	assert.Contains(t, buf.String(), "alice")
	assert.Contains(t, buf.String(), nullText)
}
