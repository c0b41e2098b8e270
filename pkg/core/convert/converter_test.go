package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func rawFixture() string {
	return "<SEC-DOCUMENT>0000320193-24-000123.txt : 2024-11-01\n" +
		"<SEC-HEADER>\nACCESSION NUMBER:\t0000320193-24-000123\n" +
		"CONFORMED SUBMISSION TYPE:\t10-K\nFILED AS OF DATE:\t20241101\n" +
		"COMPANY CONFORMED NAME:\tApple Inc.\n</SEC-HEADER>\n" +
		section("10-K", "Item 1. Business. "+narrativeFiller) +
		section("EX-21.1", "Subsidiaries of the registrant. "+narrativeFiller) +
		"</SEC-DOCUMENT>\n"
}

func TestConverterExtractEnvelope(t *testing.T) {
	c := NewConverter("html", "10-K", true, nil)
	ex := c.Extract([]byte(rawFixture()))
	if ex.Status != StatusFull {
		t.Fatalf("Status = %s (%s), want full", ex.Status, ex.Reason)
	}
	if !strings.Contains(ex.Text, "=== 10-K ===") || !strings.Contains(ex.Text, "=== EX-21.1 ===") {
		t.Errorf("envelope sections missing:\n%s", ex.Text)
	}
}

func TestConverterExtractStandaloneIXBRL(t *testing.T) {
	doc := `<html xmlns:ix="http://www.xbrl.org/2013/inlineXBRL"><head><title>Apple Inc.</title></head><body>` +
		"<p>" + narrativeFiller + "</p></body></html>"

	c := NewConverter("html", "10-K", true, nil)
	ex := c.Extract([]byte(doc))
	if ex.Status != StatusFull {
		t.Fatalf("Status = %s (%s), want full", ex.Status, ex.Reason)
	}
	if strings.Contains(ex.Text, "<p>") {
		t.Error("iXBRL extraction must yield plain text")
	}
}

func TestConvertFileHTML(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "AAPL_2024-11-01_10K.txt")
	if err := os.WriteFile(src, []byte(rawFixture()), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewConverter("html", "10-K", true, nil)
	paths, err := c.ConvertFile(src, "")
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if len(paths) != 1 || !strings.HasSuffix(paths[0], "AAPL_2024-11-01_10K.html") {
		t.Fatalf("paths = %v", paths)
	}

	out, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)
	if !strings.Contains(html, "Apple Inc.") || !strings.Contains(html, "0000320193-24-000123") {
		t.Error("letterhead metadata missing from output")
	}
	if !strings.Contains(html, "Item 1. Business.") {
		t.Error("narrative missing from output")
	}
}

func TestConvertFileMarkdown(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "raw.txt")
	if err := os.WriteFile(src, []byte(rawFixture()), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewConverter("markdown", "10-K", true, nil)
	paths, err := c.ConvertFile(src, "")
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if len(paths) != 1 || !strings.HasSuffix(paths[0], "raw.md") {
		t.Fatalf("paths = %v", paths)
	}
}

func TestConvertFilePDFKeepsHTML(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "raw.txt")
	if err := os.WriteFile(src, []byte(rawFixture()), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewConverter("pdf", "10-K", true, nil)
	paths, err := c.ConvertFile(src, "")
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("pdf mode must write HTML and PDF, got %v", paths)
	}
	if !strings.HasSuffix(paths[0], ".html") || !strings.HasSuffix(paths[1], ".pdf") {
		t.Errorf("paths = %v", paths)
	}
	if err := verifyPDF(paths[1]); err != nil {
		t.Errorf("produced PDF does not verify: %v", err)
	}
}

func TestConvertDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "sub/b.txt"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(rawFixture()), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Non-.txt files are ignored, empty .txt files fail but do not abort.
	if err := os.WriteFile(filepath.Join(dir, "ignore.html"), []byte("<html></html>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	c := NewConverter("html", "10-K", true, nil)
	converted, failed, err := c.ConvertDir(dir, "")
	if err != nil {
		t.Fatalf("ConvertDir: %v", err)
	}
	if converted != 2 {
		t.Errorf("converted = %d, want 2", converted)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}
