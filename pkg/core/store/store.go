// Package store lays filing artifacts out on disk: per-ticker directories
// under a configured output root, raw submission text plus the derived
// HTML/PDF/Markdown files named from the ticker and filing date.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the artifact layout for one run. All state the tool keeps is
// files under the root; reruns overwrite derived artifacts in place.
type Store struct {
	root string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the output root directory.
func (s *Store) Root() string { return s.root }

// TickerDir returns the per-ticker artifact directory.
func (s *Store) TickerDir(ticker string) string {
	return filepath.Join(s.root, strings.ToUpper(ticker))
}

// RawPath names the raw submission file for one filing:
// {TICKER}_{filing-date}_{FORM}.txt with the form stripped of separators.
func (s *Store) RawPath(ticker, filingDate, form string) string {
	name := fmt.Sprintf("%s_%s_%s.txt", strings.ToUpper(ticker), filingDate, sanitizeForm(form))
	return filepath.Join(s.TickerDir(ticker), name)
}

// Stem strips the extension from an artifact path; derived files share the
// raw file's stem.
func Stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// HasRaw reports whether the raw file already exists, so a rerun can skip
// the download.
func (s *Store) HasRaw(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// WriteRaw writes the raw submission bytes, creating the ticker directory.
func (s *Store) WriteRaw(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create ticker dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write raw filing: %w", err)
	}
	return nil
}

// WriteReport writes a run-level report file (e.g. the download summary)
// into the output root.
func (s *Store) WriteReport(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("create output root: %w", err)
	}
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write report %s: %w", name, err)
	}
	return path, nil
}

// sanitizeForm makes a form type filename-safe: "10-K" becomes "10K".
func sanitizeForm(form string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, form)
}
