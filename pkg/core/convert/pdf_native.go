package convert

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/net/html"
)

// maxElementNesting aborts the native engine on pathologically nested
// documents; some machine-generated filings nest thousands of divs and the
// recursive walk is not worth finishing for them.
const maxElementNesting = 200

type nativeBlock struct {
	text    string
	heading bool
}

var errNestingTooDeep = fmt.Errorf("element nesting exceeds %d levels", maxElementNesting)

// renderNativePDF is engine 1: an in-process renderer that walks the styled
// HTML and lays headings and paragraphs out with core fonts. High fidelity
// is not the goal, structure is; the letterhead template only uses tags this
// walk understands.
func renderNativePDF(htmlDoc, outPath string) error {
	root, err := html.Parse(strings.NewReader(htmlDoc))
	if err != nil {
		return fmt.Errorf("parse HTML: %w", err)
	}

	var blocks []nativeBlock
	var para strings.Builder
	flush := func(heading bool) {
		text := strings.TrimSpace(para.String())
		para.Reset()
		if text != "" {
			blocks = append(blocks, nativeBlock{text: text, heading: heading})
		}
	}

	var walk func(n *html.Node, depth int) error
	walk = func(n *html.Node, depth int) error {
		if depth > maxElementNesting {
			return errNestingTooDeep
		}
		switch n.Type {
		case html.TextNode:
			para.WriteString(n.Data)
			return nil
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head":
				return nil
			case "h1", "h2", "h3", "h4", "strong":
				flush(false)
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if err := walk(c, depth+1); err != nil {
						return err
					}
				}
				flush(true)
				return nil
			case "p", "div", "li", "tr", "br":
				flush(false)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return err
	}
	flush(false)
	if len(blocks) == 0 {
		return fmt.Errorf("no renderable blocks in HTML")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for _, blk := range blocks {
		text := strings.ToValidUTF8(blk.text, "")
		if blk.heading {
			doc.SetFont("Helvetica", "B", 11)
			doc.MultiCell(0, 5.5, tr(text), "", "L", false)
			doc.Ln(2)
		} else {
			doc.SetFont("Helvetica", "", 9)
			doc.MultiCell(0, 4.5, tr(text), "", "L", false)
			doc.Ln(1.5)
		}
		if doc.Err() {
			return fmt.Errorf("native PDF layout: %w", doc.Error())
		}
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write native PDF: %w", err)
	}
	return nil
}
