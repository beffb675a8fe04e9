package sheetsql

import (
	"fmt"
	"strings"
)

// OutputFormat represents the output file format of DumpDatabase
type OutputFormat int

const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV
	// OutputFormatLTSV represents LTSV output format
	OutputFormatLTSV
	// OutputFormatXLSX represents Excel XLSX output format
	OutputFormatXLSX
	// OutputFormatParquet represents Apache Parquet output format
	OutputFormatParquet
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatLTSV:
		return "ltsv"
	case OutputFormatXLSX:
		return "xlsx"
	case OutputFormatParquet:
		return "parquet"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format
func (f OutputFormat) Extension() string {
	switch f {
	case OutputFormatTSV:
		return extTSV
	case OutputFormatLTSV:
		return extLTSV
	case OutputFormatXLSX:
		return extXLSX
	case OutputFormatParquet:
		return extParquet
	default:
		return extCSV
	}
}

// ParseOutputFormat parses a format name such as "csv" or ".xlsx"
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "csv":
		return OutputFormatCSV, nil
	case "tsv":
		return OutputFormatTSV, nil
	case "ltsv":
		return OutputFormatLTSV, nil
	case "xlsx":
		return OutputFormatXLSX, nil
	case "parquet":
		return OutputFormatParquet, nil
	default:
		return OutputFormatCSV, fmt.Errorf("%w: output format %q", ErrUnsupportedFormat, s)
	}
}

// CompressionType represents the compression type
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression (read only)
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return extGZ
	case CompressionBZ2:
		return extBZ2
	case CompressionXZ:
		return extXZ
	case CompressionZSTD:
		return extZSTD
	default:
		return ""
	}
}

// ParseCompressionType parses a compression name: none, gz, gzip, bz2, xz, zst or zstd
func ParseCompressionType(s string) (CompressionType, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "none":
		return CompressionNone, nil
	case "gz", "gzip":
		return CompressionGZ, nil
	case "bz2", "bzip2":
		return CompressionBZ2, nil
	case "xz":
		return CompressionXZ, nil
	case "zst", "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, s)
	}
}

// DumpOptions configures how database tables are exported to files.
//
// Example:
//
//	options := NewDumpOptions().
//		WithFormat(OutputFormatTSV).
//		WithCompression(CompressionGZ)
//
//	err := DumpDatabase("sales.db", "./output", options)
type DumpOptions struct {
	// Format specifies the output file format
	Format OutputFormat
	// Compression specifies the compression type
	Compression CompressionType
}

// NewDumpOptions creates default export options (CSV, no compression).
func NewDumpOptions() DumpOptions {
	return DumpOptions{
		Format:      OutputFormatCSV,
		Compression: CompressionNone,
	}
}

// WithFormat sets the output file format.
func (o DumpOptions) WithFormat(format OutputFormat) DumpOptions {
	o.Format = format
	return o
}

// WithCompression sets the compression of output files.
// CompressionBZ2 is rejected by DumpDatabase because bzip2 cannot be written.
func (o DumpOptions) WithCompression(compression CompressionType) DumpOptions {
	o.Compression = compression
	return o
}

// FileExtension returns the complete file extension including compression
func (o DumpOptions) FileExtension() string {
	return o.Format.Extension() + o.Compression.Extension()
}
