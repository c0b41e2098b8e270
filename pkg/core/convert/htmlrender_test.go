package convert

import (
	"strings"
	"testing"
	"time"
)

var testMeta = Metadata{
	CompanyName:    "Apple Inc.",
	DocumentType:   "10-K",
	AccessionID:    "0000320193-24-000123",
	FilingDate:     "2024-11-01",
	SourceFilename: "AAPL_2024-11-01_10K.txt",
	GeneratedAt:    time.Date(2024, 11, 2, 9, 30, 0, 0, time.UTC),
}

func TestRenderHTMLLetterhead(t *testing.T) {
	ex := Extraction{Text: "Item 1. Business\nWe design products.", Status: StatusFull}
	out, err := RenderHTML(ex, testMeta)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{
		"Apple Inc.",
		"0000320193-24-000123",
		"Filing Date: 2024-11-01",
		"Generated: 2024-11-02 09:30:00",
		`<div class="content">`,
		"We design products.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
	if strings.Contains(out, `class="notice"`) {
		t.Error("full extraction must not carry a notice block")
	}
}

func TestRenderHTMLDeterministic(t *testing.T) {
	ex := Extraction{Text: "Item 1. Business\nNarrative.", Status: StatusFull}
	a, err := RenderHTML(ex, testMeta)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	b, err := RenderHTML(ex, testMeta)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if a != b {
		t.Error("same extraction and metadata must render identically")
	}
}

func TestRenderHTMLNotices(t *testing.T) {
	truncated, err := RenderHTML(Extraction{Text: "Exhibit 31.1", Status: StatusFull, Truncated: true}, testMeta)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(truncated, "truncated filing") {
		t.Error("truncated extraction must render a notice")
	}

	degraded, err := RenderHTML(Extraction{Text: "prefix", Status: StatusDegraded, Reason: "no section carried substantial content"}, testMeta)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(degraded, "Best-effort rendering") ||
		!strings.Contains(degraded, "no section carried substantial content") {
		t.Error("degraded extraction must render the reason in a notice")
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	ex := Extraction{Text: "Margins <50% & falling.", Status: StatusFull}
	out, err := RenderHTML(ex, testMeta)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(out, "Margins &lt;50% &amp; falling.") {
		t.Error("narrative text must be HTML-escaped")
	}
}

func TestFormatSectionsHeaders(t *testing.T) {
	tests := []struct {
		line   string
		header bool
	}{
		{"Item 1. Business", true},
		{"Item 1A. Risk Factors", true},
		{"PART II", true},
		{"Part IV", true},
		{"=== 10-K ===", true},
		{"SIGNATURES", true},
		{"Liquidity and Capital Resources", true}, // lexicon title
		{"We sold more items this year.", false},
		{"Item count grew.", false},
		{"signatures were collected", false},
	}
	for _, tt := range tests {
		got := string(formatSections(tt.line))
		isBold := strings.HasPrefix(got, "<strong>")
		if isBold != tt.header {
			t.Errorf("formatSections(%q) header = %v, want %v (got %q)", tt.line, isBold, tt.header, got)
		}
	}
}
