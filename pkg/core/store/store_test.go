package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRawPath(t *testing.T) {
	s := New("/data/reports")
	tests := []struct {
		ticker, date, form string
		want               string
	}{
		{"aapl", "2024-11-01", "10-K", "/data/reports/AAPL/AAPL_2024-11-01_10K.txt"},
		{"MSFT", "2024-07-30", "10-Q", "/data/reports/MSFT/MSFT_2024-07-30_10Q.txt"},
		{"brk.b", "2024-02-26", "10-K/A", "/data/reports/BRK.B/BRK.B_2024-02-26_10KA.txt"},
	}
	for _, tt := range tests {
		if got := s.RawPath(tt.ticker, tt.date, tt.form); got != filepath.FromSlash(tt.want) {
			t.Errorf("RawPath(%q, %q, %q) = %q, want %q", tt.ticker, tt.date, tt.form, got, tt.want)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/data/AAPL/AAPL_2024-11-01_10K.txt"); got != "/data/AAPL/AAPL_2024-11-01_10K" {
		t.Errorf("Stem = %q", got)
	}
}

func TestWriteAndHasRaw(t *testing.T) {
	s := New(t.TempDir())
	path := s.RawPath("AAPL", "2024-11-01", "10-K")

	if s.HasRaw(path) {
		t.Error("HasRaw must be false before writing")
	}
	if err := s.WriteRaw(path, []byte("filing body")); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if !s.HasRaw(path) {
		t.Error("HasRaw must be true after writing")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "filing body" {
		t.Errorf("raw content = %q", data)
	}
}

func TestHasRawEmptyFile(t *testing.T) {
	s := New(t.TempDir())
	path := s.RawPath("AAPL", "2024-11-01", "10-K")
	if err := s.WriteRaw(path, nil); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if s.HasRaw(path) {
		t.Error("an empty raw file must not count as downloaded")
	}
}

func TestWriteReport(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "out")
	s := New(root)

	path, err := s.WriteReport("download_summary.md", []byte("# Summary\n"))
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if filepath.Dir(path) != root {
		t.Errorf("report must land in the output root, got %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("report file missing: %v", err)
	}
}
