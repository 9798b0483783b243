package processor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestProcessTxt(t *testing.T) {
	p := New(DefaultRegistry(testLogger()), 4, 1, testLogger())

	path := writeTempFile(t, "notes.txt", "one two three four five six seven")
	units, err := p.Process(path, "notes.txt")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// 7 words at size 4 / overlap 1: [0:4], [3:7]
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	if units[0].Content != "one two three four" {
		t.Errorf("unit 1 content = %q", units[0].Content)
	}
	if units[1].Content != "four five six seven" {
		t.Errorf("unit 2 content = %q", units[1].Content)
	}

	for i, u := range units {
		wantID := fmt.Sprintf("notes.txt_%d", i+1)
		if u.ID != wantID {
			t.Errorf("unit %d id = %q, want %q", i, u.ID, wantID)
		}
		if u.Metadata.ChunkIndex != i+1 {
			t.Errorf("unit %d chunk_index = %d, want %d", i, u.Metadata.ChunkIndex, i+1)
		}
		if u.Metadata.Source != "notes.txt" {
			t.Errorf("unit %d source = %q", i, u.Metadata.Source)
		}
		if u.Metadata.TotalChunks != 2 {
			t.Errorf("unit %d total_chunks = %d, want 2", i, u.Metadata.TotalChunks)
		}
	}
}

func TestProcessStableIDs(t *testing.T) {
	p := New(DefaultRegistry(testLogger()), 10, 2, testLogger())

	content := strings.Repeat("word ", 35)
	path := writeTempFile(t, "report.txt", content)

	first, err := p.Process(path, "report.txt")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	second, err := p.Process(path, "report.txt")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("re-processing changed unit count: %d vs %d", len(first), len(second))
	}
	seen := make(map[string]bool)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("unit %d id changed across runs: %q vs %q", i, first[i].ID, second[i].ID)
		}
		if seen[first[i].ID] {
			t.Errorf("duplicate unit id %q", first[i].ID)
		}
		seen[first[i].ID] = true
	}
}

func TestProcessUnsupportedFormat(t *testing.T) {
	p := New(DefaultRegistry(testLogger()), 500, 50, testLogger())

	for _, name := range []string{"essay.docx", "data.csv", "noext"} {
		_, err := p.Process("/tmp/irrelevant", name)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Process(%q) error = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestProcessExtensionCaseInsensitive(t *testing.T) {
	p := New(DefaultRegistry(testLogger()), 500, 50, testLogger())

	path := writeTempFile(t, "UPPER.TXT", "hello world")
	units, err := p.Process(path, "UPPER.TXT")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if units[0].ID != "UPPER.TXT_1" {
		t.Errorf("unit id = %q, want UPPER.TXT_1", units[0].ID)
	}
}

func TestProcessEmptyFile(t *testing.T) {
	p := New(DefaultRegistry(testLogger()), 500, 50, testLogger())

	path := writeTempFile(t, "empty.txt", "")
	units, err := p.Process(path, "empty.txt")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(units) != 0 {
		t.Errorf("got %d units from empty file, want 0", len(units))
	}
}

func TestSupportedExtensions(t *testing.T) {
	p := New(DefaultRegistry(testLogger()), 500, 50, testLogger())

	exts := p.SupportedExtensions()
	if len(exts) != 2 || exts[0] != ".pdf" || exts[1] != ".txt" {
		t.Errorf("SupportedExtensions() = %v, want [.pdf .txt]", exts)
	}
	if !p.Supported(".TXT") {
		t.Error("Supported(.TXT) = false, want true")
	}
	if p.Supported(".docx") {
		t.Error("Supported(.docx) = true, want false")
	}
}
