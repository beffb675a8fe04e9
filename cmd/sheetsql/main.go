// Command sheetsql imports spreadsheets and delimited files into a SQLite
// database file and queries it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/nao1215/sheetsql"
)

const usage = `usage: sheetsql [-q] <command> [arguments]

commands:
  import  <db> <file>...    import files, one table per sheet or file
  query   <db> <sql>        run a SQL statement, print rows of SELECT
  tables  <db>              list tables
  columns <db> <table>      list columns of a table
  dump    [-format csv|tsv|ltsv|xlsx|parquet] [-compress none|gz|xz|zst] <db> <dir>
                            export every table to files
`

var errUsage = errors.New("invalid arguments")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sheetsql", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	quiet := fs.Bool("q", false, "do not print status messages")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	opts := sheetsql.NewOptions().WithOutput(stdout)
	if *quiet {
		opts = opts.WithOutput(io.Discard)
	}

	var err error
	cmdArgs := fs.Args()[1:]
	switch fs.Arg(0) {
	case "import":
		err = runImport(ctx, cmdArgs, opts)
	case "query":
		err = runQuery(ctx, cmdArgs, stdout, opts)
	case "tables":
		err = runTables(ctx, cmdArgs, opts)
	case "columns":
		err = runColumns(ctx, cmdArgs, opts)
	case "dump":
		err = runDump(ctx, cmdArgs, stderr)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, fs.Arg(0))
	}

	if errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, "error:", err)
		fs.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func runImport(ctx context.Context, args []string, opts sheetsql.Options) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: import needs a database and at least one file", errUsage)
	}

	dbPath := args[0]
	var errs []error
	for _, filePath := range args[1:] {
		if _, err := sheetsql.ImportFileContext(ctx, filePath, dbPath, opts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runQuery(ctx context.Context, args []string, stdout io.Writer, opts sheetsql.Options) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: query needs a database and a SQL statement", errUsage)
	}

	result, err := sheetsql.RunQueryContext(ctx, args[1], args[0], opts)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return render(stdout, result)
}

func runTables(ctx context.Context, args []string, opts sheetsql.Options) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: tables needs a database", errUsage)
	}
	_, err := sheetsql.ListTablesContext(ctx, args[0], opts)
	return err
}

func runColumns(ctx context.Context, args []string, opts sheetsql.Options) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: columns needs a database and a table", errUsage)
	}
	_, err := sheetsql.ListColumnsContext(ctx, args[0], args[1], opts)
	return err
}

func runDump(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "csv", "output format: csv, tsv, ltsv, xlsx or parquet")
	compress := fs.String("compress", "none", "output compression: none, gz, xz or zst")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: dump needs a database and an output directory", errUsage)
	}

	outputFormat, err := sheetsql.ParseOutputFormat(*format)
	if err != nil {
		return err
	}
	compression, err := sheetsql.ParseCompressionType(*compress)
	if err != nil {
		return err
	}

	options := sheetsql.NewDumpOptions().
		WithFormat(outputFormat).
		WithCompression(compression)
	return sheetsql.DumpDatabaseContext(ctx, fs.Arg(0), fs.Arg(1), options)
}
