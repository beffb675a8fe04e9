package sheetsql

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionHandler wraps readers and writers with (de)compression
type CompressionHandler interface {
	// CreateReader wraps an io.Reader with a decompression reader if needed
	CreateReader(reader io.Reader) (io.Reader, func() error, error)
	// CreateWriter wraps an io.Writer with a compression writer if needed
	CreateWriter(writer io.Writer) (io.Writer, func() error, error)
	// Extension returns the file extension for this compression type (e.g., ".gz")
	Extension() string
}

type compressionHandler struct {
	compressionType CompressionType
}

// NewCompressionHandler creates a new compression handler for the given compression type
func NewCompressionHandler(compressionType CompressionType) CompressionHandler {
	return &compressionHandler{compressionType: compressionType}
}

func noopClose() error { return nil }

// CreateReader creates a decompression reader based on the compression type
func (h *compressionHandler) CreateReader(reader io.Reader) (io.Reader, func() error, error) {
	switch h.compressionType {
	case CompressionNone:
		return reader, noopClose, nil
	case CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil
	case CompressionBZ2:
		return bzip2.NewReader(reader), noopClose, nil
	case CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, noopClose, nil
	case CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression type for reading: %v", h.compressionType)
	}
}

// CreateWriter creates a compression writer based on the compression type
func (h *compressionHandler) CreateWriter(writer io.Writer) (io.Writer, func() error, error) {
	switch h.compressionType {
	case CompressionNone:
		return writer, noopClose, nil
	case CompressionGZ:
		gzWriter := gzip.NewWriter(writer)
		return gzWriter, gzWriter.Close, nil
	case CompressionBZ2:
		return nil, nil, errors.New("bzip2 compression is not supported for writing")
	case CompressionXZ:
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xzWriter, xzWriter.Close, nil
	case CompressionZSTD:
		zstdWriter, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, zstdWriter.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression type for writing: %v", h.compressionType)
	}
}

// Extension returns the file extension for this compression type
func (h *compressionHandler) Extension() string {
	return h.compressionType.Extension()
}

// detectCompressionType detects the compression type from a file path suffix
func detectCompressionType(path string) CompressionType {
	path = strings.ToLower(path)

	switch {
	case strings.HasSuffix(path, extGZ):
		return CompressionGZ
	case strings.HasSuffix(path, extBZ2):
		return CompressionBZ2
	case strings.HasSuffix(path, extXZ):
		return CompressionXZ
	case strings.HasSuffix(path, extZSTD):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// trimCompressionExtension removes one compression extension from a path if present
func trimCompressionExtension(path string) string {
	ext := detectCompressionType(path).Extension()
	return path[:len(path)-len(ext)]
}

// openDecompressed opens a file and returns a reader that handles decompression.
// The returned cleanup closes both the decompressor and the file.
func openDecompressed(path string, compressionType CompressionType) (io.Reader, func() error, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, cleanup, err := NewCompressionHandler(compressionType).CreateReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return reader, func() error {
		cleanupErr := cleanup()
		if closeErr := f.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}, nil
}

// createCompressed creates a file and returns a writer that handles compression.
// The returned cleanup flushes the compressor, syncs and closes the file.
func createCompressed(path string, compressionType CompressionType) (io.Writer, func() error, error) {
	f, err := os.Create(path) //nolint:gosec // Output path is built from validated table names
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file: %w", err)
	}

	writer, cleanup, err := NewCompressionHandler(compressionType).CreateWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return writer, func() error {
		cleanupErr := cleanup()
		if syncErr := f.Sync(); syncErr != nil && cleanupErr == nil {
			cleanupErr = syncErr
		}
		if closeErr := f.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}, nil
}
