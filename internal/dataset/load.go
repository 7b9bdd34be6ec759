// Package dataset loads batches of production records from disk.
package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/merhi-odg/roi-monitor/internal/models"
)

// Format identifies the encoding of a batch file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Compression identifies the compression wrapper of a batch file.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// Detect infers format and compression from the file name, e.g.
// "batch.jsonl.zst" is zstd-compressed JSON.
func Detect(path string) (Format, Compression, error) {
	name := strings.ToLower(filepath.Base(path))

	compression := CompressionNone
	switch {
	case strings.HasSuffix(name, ".gz"):
		compression = CompressionGzip
		name = strings.TrimSuffix(name, ".gz")
	case strings.HasSuffix(name, ".zst"):
		compression = CompressionZstd
		name = strings.TrimSuffix(name, ".zst")
	}

	switch filepath.Ext(name) {
	case ".csv":
		return FormatCSV, compression, nil
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON, compression, nil
	default:
		return "", "", fmt.Errorf("dataset: cannot infer format of %s (want .csv, .json, .jsonl or .ndjson, optionally .gz or .zst)", path)
	}
}

// Load reads a batch file, choosing the parser and decompressor from the
// file name.
func Load(path string) ([]models.Record, error) {
	format, compression, err := Detect(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	r, err := decompress(f, compression)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	defer r.Close() //nolint:errcheck

	return Read(r, format, path)
}

// Read parses records of the given format from r.
func Read(r io.Reader, format Format, name string) ([]models.Record, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r, name)
	case FormatJSON:
		return ReadJSON(r, name)
	default:
		return nil, fmt.Errorf("dataset: unsupported format %q", format)
	}
}

func decompress(r io.Reader, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}
