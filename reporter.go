package sheetsql

import (
	"fmt"
	"io"
)

// Message prefixes written in front of every status line
const (
	prefixSuccess  = "✅"
	prefixWarning  = "⚠️"
	prefixError    = "❌"
	prefixInfo     = "ℹ️"
	prefixReleased = "🔒"
	prefixTables   = "📊"
	prefixColumns  = "📋"
)

// reporter writes status messages for a single operation.
// Write errors are ignored: messages are informational only.
type reporter struct {
	w io.Writer
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w}
}

func (r *reporter) printf(prefix, format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, prefix+" "+format+"\n", args...)
}

func (r *reporter) success(format string, args ...any) {
	r.printf(prefixSuccess, format, args...)
}

func (r *reporter) warn(format string, args ...any) {
	r.printf(prefixWarning, format, args...)
}

func (r *reporter) fail(format string, args ...any) {
	r.printf(prefixError, format, args...)
}

func (r *reporter) info(format string, args ...any) {
	r.printf(prefixInfo, format, args...)
}

func (r *reporter) released() {
	r.printf(prefixReleased, "Connection closed.")
}

// list prints a heading followed by one indented line per item.
func (r *reporter) list(prefix, heading string, items []string) {
	r.printf(prefix, "%s", heading)
	for _, item := range items {
		_, _ = fmt.Fprintf(r.w, " - %s\n", item)
	}
}
