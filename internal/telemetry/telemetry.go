// Package telemetry exports per-tick chunk timing to CSV, a purely
// observational sink with no effect on simulation semantics.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// ChunkTimingRecord is one chunk's timing contribution for one frame.
type ChunkTimingRecord struct {
	Frame       uint64  `csv:"frame"`
	ChunkX      int     `csv:"chunk_x"`
	ChunkZ      int     `csv:"chunk_z"`
	ChunkMs     float64 `csv:"chunk_ms"`
	SectionsHot int     `csv:"sections_loaded"`
}

// SummaryRecord is one frame's world-wide timing rollup.
type SummaryRecord struct {
	Frame               uint64  `csv:"frame"`
	WorldMs             float64 `csv:"world_ms"`
	ChunkCount          int     `csv:"chunk_count"`
	TotalSectionsLoaded int     `csv:"total_sections_loaded"`
}

// Writer owns the open CSV files for one telemetry run. A nil *Writer is
// valid and every method on it is a no-op, matching the "disabled when dir
// is empty" idiom.
type Writer struct {
	dir string

	chunkFile   *os.File
	summaryFile *os.File

	chunkHeaderWritten   bool
	summaryHeaderWritten bool
}

// NewWriter creates chunk_timing.csv and frame_summary.csv under dir. It
// returns a nil *Writer, nil error when dir is empty so callers can write
// unconditionally.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	w := &Writer{dir: dir}

	chunkFile, err := os.Create(filepath.Join(dir, "chunk_timing.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating chunk_timing.csv: %w", err)
	}
	w.chunkFile = chunkFile

	summaryFile, err := os.Create(filepath.Join(dir, "frame_summary.csv"))
	if err != nil {
		chunkFile.Close()
		return nil, fmt.Errorf("creating frame_summary.csv: %w", err)
	}
	w.summaryFile = summaryFile

	return w, nil
}

// WriteChunkTimings appends one frame's per-chunk timing rows.
func (w *Writer) WriteChunkTimings(records []ChunkTimingRecord) error {
	if w == nil || len(records) == 0 {
		return nil
	}
	if !w.chunkHeaderWritten {
		if err := gocsv.Marshal(records, w.chunkFile); err != nil {
			return fmt.Errorf("writing chunk timings: %w", err)
		}
		w.chunkHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.chunkFile); err != nil {
		return fmt.Errorf("writing chunk timings: %w", err)
	}
	return nil
}

// WriteSummary appends one frame's world-wide summary row.
func (w *Writer) WriteSummary(record SummaryRecord) error {
	if w == nil {
		return nil
	}
	records := []SummaryRecord{record}
	if !w.summaryHeaderWritten {
		if err := gocsv.Marshal(records, w.summaryFile); err != nil {
			return fmt.Errorf("writing frame summary: %w", err)
		}
		w.summaryHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.summaryFile); err != nil {
		return fmt.Errorf("writing frame summary: %w", err)
	}
	return nil
}

// Dir returns the telemetry output directory, or "" for a nil Writer.
func (w *Writer) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// Close flushes and closes both CSV files.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	var firstErr error
	if w.chunkFile != nil {
		if err := w.chunkFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if w.summaryFile != nil {
		if err := w.summaryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
