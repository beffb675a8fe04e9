package sheetsql

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newReporter(&buf)

	r.success("Sheet '%s' imported as table '%s'.", "Q1 Sales", "Q1_Sales")
	r.warn("nothing here")
	r.fail("boom: %v", "disk full")
	r.info("fyi")
	r.list(prefixTables, "Tables in the database:", []string{"a", "b"})
	r.released()

	want := "✅ Sheet 'Q1 Sales' imported as table 'Q1_Sales'.\n" +
		"⚠️ nothing here\n" +
		"❌ boom: disk full\n" +
		"ℹ️ fyi\n" +
		"📊 Tables in the database:\n" +
		" - a\n" +
		" - b\n" +
		"🔒 Connection closed.\n"
	assert.Equal(t, want, buf.String())
}

func TestResolveOptions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, os.Stdout, resolveOptions(nil).Output)
	assert.Equal(t, os.Stdout, resolveOptions([]Options{{}}).Output)
	assert.Equal(t, io.Discard, resolveOptions([]Options{NewOptions().WithOutput(io.Discard)}).Output)
}
