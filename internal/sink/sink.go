// Package sink publishes metrics reports to their consumers.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/merhi-odg/roi-monitor/internal/models"
)

// Sink receives one report per scored batch.
type Sink interface {
	Publish(ctx context.Context, name string, report *models.MetricsReport) error
}

// Encode renders a report as indented JSON followed by a newline.
func Encode(report *models.MetricsReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriterSink writes reports to an io.Writer, one JSON document each.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a [WriterSink].
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Publish(_ context.Context, _ string, report *models.MetricsReport) error {
	data, err := Encode(report)
	if err != nil {
		return err
	}
	_, err = s.w.Write(data)
	return err
}

// FileSink writes each report to <dir>/<name>.json.
type FileSink struct {
	dir string
}

// NewFileSink creates a [FileSink], creating dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Publish(_ context.Context, name string, report *models.MetricsReport) error {
	data, err := Encode(report)
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, FileName(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Multi fans a report out to every sink, stopping at the first failure.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, name string, report *models.MetricsReport) error {
	for _, s := range m {
		if err := s.Publish(ctx, name, report); err != nil {
			return err
		}
	}
	return nil
}

// FileName maps a report name to a safe file name ending in .json.
func FileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "report"
	}
	return name + ".json"
}
