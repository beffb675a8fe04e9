package main

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/nao1215/sheetsql"
)

// nullText is shown for NULL cells in terminal output
const nullText = "NULL"

// render prints a query result as a table on terminals and as CSV otherwise.
func render(w io.Writer, result *sheetsql.QueryResult) error {
	if isTerminal(w) {
		return renderTable(w, result)
	}
	return renderCSV(w, result)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

func renderTable(w io.Writer, result *sheetsql.QueryResult) error {
	header := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}

	rows := make([]table.Row, 0, result.Len())
	for _, r := range result.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			if v.IsNull() {
				row[i] = nullText
				continue
			}
			row[i] = v.String()
		}
		rows = append(rows, row)
	}

	t := table.NewWriter()
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

func renderCSV(w io.Writer, result *sheetsql.QueryResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return err
	}
	for _, r := range result.Rows {
		record := make([]string, len(r))
		for i, v := range r {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
