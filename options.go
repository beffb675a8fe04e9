package sheetsql

import (
	"io"
	"os"
)

// Options configures a single call of ImportFile, RunQuery, ListTables or ListColumns.
//
// Example:
//
//	opts := NewOptions().WithOutput(io.Discard)
//	tables, err := ListTables("sales.db", opts)
type Options struct {
	// Output receives the human-readable status messages. Defaults to os.Stdout.
	Output io.Writer
}

// NewOptions creates default options that print status messages to os.Stdout.
func NewOptions() Options {
	return Options{
		Output: os.Stdout,
	}
}

// WithOutput redirects status messages. Pass io.Discard to silence them.
func (o Options) WithOutput(w io.Writer) Options {
	o.Output = w
	return o
}

// resolveOptions picks the first provided Options, filling unset fields with defaults.
func resolveOptions(opts []Options) Options {
	options := NewOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if options.Output == nil {
		options.Output = os.Stdout
	}
	return options
}
