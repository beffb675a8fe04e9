package sheetsql

import (
	"path/filepath"
	"strings"
)

// FileType represents the importable source formats, independent of compression
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeLTSV represents LTSV file type
	FileTypeLTSV
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeXLSX represents Office Open XML workbooks (.xlsx, .xlsm)
	FileTypeXLSX
	// FileTypeXLS represents legacy binary (BIFF) workbooks (.xls)
	FileTypeXLS
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	extCSV     = ".csv"
	extTSV     = ".tsv"
	extLTSV    = ".ltsv"
	extParquet = ".parquet"
	extXLSX    = ".xlsx"
	extXLSM    = ".xlsm"
	extXLS     = ".xls"
	extGZ      = ".gz"
	extBZ2     = ".bz2"
	extXZ      = ".xz"
	extZSTD    = ".zst"
)

// String returns the lower-case name of the file type
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeLTSV:
		return "ltsv"
	case FileTypeParquet:
		return "parquet"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeXLS:
		return "xls"
	default:
		return "unsupported"
	}
}

// isSpreadsheet reports whether the source may hold several sheets
func (ft FileType) isSpreadsheet() bool {
	return ft == FileTypeXLSX || ft == FileTypeXLS
}

// file is an import source on disk
type file struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// newFile creates a new file, detecting its type and compression from the path
func newFile(path string) *file {
	return &file{
		path:        path,
		fileType:    detectFileType(path),
		compression: detectCompressionType(path),
	}
}

// detectFileType detects the file type from its extension, case-insensitively,
// after removing a compression extension.
func detectFileType(path string) FileType {
	base := strings.ToLower(trimCompressionExtension(path))

	switch filepath.Ext(base) {
	case extCSV:
		return FileTypeCSV
	case extTSV:
		return FileTypeTSV
	case extLTSV:
		return FileTypeLTSV
	case extParquet:
		return FileTypeParquet
	case extXLSX, extXLSM:
		return FileTypeXLSX
	case extXLS:
		return FileTypeXLS
	default:
		return FileTypeUnsupported
	}
}

// isSupportedFile checks if the file has an importable extension
func isSupportedFile(path string) bool {
	return detectFileType(path) != FileTypeUnsupported
}

// getPath returns file path
func (f *file) getPath() string {
	return f.path
}

// getFileType returns file type
func (f *file) getFileType() FileType {
	return f.fileType
}
