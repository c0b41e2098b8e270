package convert

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	// layoutChunkLines bounds how many input lines accumulate before the
	// paragraph buffer is forced onto the page. Filings run to hundreds of
	// thousands of lines; without the cap a single unbroken run would be
	// held in memory whole.
	layoutChunkLines = 1000
	// layoutHeaderMinLen: an all-uppercase line shorter than this is more
	// likely an acronym or a table fragment than a section header.
	layoutHeaderMinLen = 10
)

// renderLayoutPDF is engine 3, the guaranteed-success fallback: a
// from-scratch layout of the plain narrative. Lines group into
// blank-line-delimited paragraphs, probable headers become titled blocks,
// and the paragraph buffer flushes in bounded chunks.
func renderLayoutPDF(narrative, outPath string) error {
	if strings.TrimSpace(narrative) == "" {
		return fmt.Errorf("empty narrative")
	}

	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(25, 25, 25)
	doc.SetAutoPageBreak(true, 18)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	writeParagraph := func(text string) {
		doc.SetFont("Helvetica", "", 9)
		doc.MultiCell(0, 4.2, tr(sanitizeLayoutText(text)), "", "L", false)
		doc.Ln(1.5)
	}
	writeHeader := func(text string) {
		doc.SetFont("Helvetica", "B", 12)
		doc.MultiCell(0, 6, tr(sanitizeLayoutText(text)), "", "L", false)
		doc.Ln(3)
	}

	var para []string
	sinceFlush := 0
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		writeParagraph(strings.Join(para, " "))
		para = para[:0]
	}

	for _, line := range strings.Split(narrative, "\n") {
		line = strings.TrimSpace(line)
		sinceFlush++
		if sinceFlush >= layoutChunkLines {
			flushPara()
			sinceFlush = 0
		}

		if line == "" {
			flushPara()
			continue
		}
		if isLayoutHeader(line) {
			flushPara()
			writeHeader(line)
			continue
		}
		para = append(para, line)
	}
	flushPara()

	if doc.Err() {
		return fmt.Errorf("layout PDF: %w", doc.Error())
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write layout PDF: %w", err)
	}
	return nil
}

// isLayoutHeader spots probable section headers in plain text: long
// all-uppercase lines, section banners and the Item/PART label prefixes.
func isLayoutHeader(line string) bool {
	if strings.HasPrefix(line, "Item ") || strings.HasPrefix(line, "PART ") ||
		strings.HasPrefix(line, "=== ") {
		return true
	}
	if len(line) <= layoutHeaderMinLen || len(line) > 120 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// sanitizeLayoutText keeps malformed fragments printable: invalid UTF-8 is
// dropped and control characters collapse to spaces so a bad byte run cannot
// corrupt the page stream.
func sanitizeLayoutText(text string) string {
	text = strings.ToValidUTF8(text, "")
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return ' '
		}
		return r
	}, text)
}
