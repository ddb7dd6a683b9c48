package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWriterEmptyDirIsNilAndSafe(t *testing.T) {
	w, err := NewWriter("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != nil {
		t.Fatal("expected nil writer for empty dir")
	}
	if err := w.WriteChunkTimings([]ChunkTimingRecord{{Frame: 1}}); err != nil {
		t.Fatalf("nil writer should no-op, got %v", err)
	}
	if err := w.WriteSummary(SummaryRecord{Frame: 1}); err != nil {
		t.Fatalf("nil writer should no-op, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("nil writer Close should no-op, got %v", err)
	}
}

func TestWriterWritesHeaderOnceThenAppends(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer w.Close()

	if err := w.WriteChunkTimings([]ChunkTimingRecord{{Frame: 1, ChunkX: 0, ChunkZ: 0, ChunkMs: 1.5, SectionsHot: 1}}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := w.WriteChunkTimings([]ChunkTimingRecord{{Frame: 2, ChunkX: 0, ChunkZ: 0, ChunkMs: 1.6, SectionsHot: 1}}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	w.Close()

	data, err := os.ReadFile(filepath.Join(dir, "chunk_timing.csv"))
	if err != nil {
		t.Fatalf("reading chunk_timing.csv: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 1 header + 2 data lines, got %d: %q", len(lines), string(data))
	}
	if !strings.Contains(lines[0], "frame") {
		t.Fatalf("expected a header row, got %q", lines[0])
	}
}

func TestWriterSummaryFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer w.Close()

	if err := w.WriteSummary(SummaryRecord{Frame: 1, WorldMs: 10, ChunkCount: 1, TotalSectionsLoaded: 1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	w.Close()

	if _, err := os.Stat(filepath.Join(dir, "frame_summary.csv")); err != nil {
		t.Fatalf("expected frame_summary.csv to exist: %v", err)
	}
}
