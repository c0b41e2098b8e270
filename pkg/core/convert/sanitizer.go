package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jaytaylor/html2text"
)

// Sanitizer cleans iXBRL/HTML filing documents before text derivation:
// scripts, hidden elements, spacer images and page-number footers go away,
// inline XBRL tags are unwrapped so their text survives.
type Sanitizer struct{}

var rePageNumber = regexp.MustCompile(`^(?:Page\s*)?\d+$|^-\s*\d+\s*-$|^[A-Z]?-\d+$`)

// Sanitize parses the document and returns cleaned HTML. Parse failures fall
// back to the regex cleaner so malformed fragments still produce output.
func (s *Sanitizer) Sanitize(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("[hidden], [style*='display:none'], [style*='display: none']").Remove()

	// Spacer and decoration images carry nothing for a text rendering.
	doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		width, _ := sel.Attr("width")
		height, _ := sel.Attr("height")
		if src == "" || strings.Contains(src, "spacer") || strings.Contains(src, "blank") ||
			width == "1" || height == "1" {
			sel.Remove()
		}
	})

	// Page-number footers repeat on every printed page of the source.
	doc.Find("p, div, span").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) < 20 && rePageNumber.MatchString(text) {
			sel.Remove()
		}
	})

	// Unwrap inline XBRL fact tags, keeping their text.
	doc.Find("ix\\:nonFraction, ix\\:nonNumeric, ix\\:numeric, ix\\:fraction").Each(func(i int, sel *goquery.Selection) {
		sel.ReplaceWithHtml(sel.Text())
	})
	doc.Find("ix\\:hidden, ix\\:header").Remove()

	cleaned, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(cleaned) == "" {
		cleaned, err = doc.Html()
		if err != nil {
			return "", fmt.Errorf("serialize cleaned HTML: %w", err)
		}
	}
	return cleaned, nil
}

// NarrativeFromHTML derives plain narrative text from an iXBRL or HTML
// document: sanitize, then text conversion. Both steps have regex fallbacks
// so the function always returns something for non-empty input.
func (s *Sanitizer) NarrativeFromHTML(htmlContent string) string {
	cleaned, err := s.Sanitize(htmlContent)
	if err != nil {
		return CleanDocumentText(htmlContent)
	}
	text, err := html2text.FromString(cleaned, html2text.Options{TextOnly: false})
	if err != nil || strings.TrimSpace(text) == "" {
		return CleanDocumentText(cleaned)
	}
	return strings.TrimSpace(text)
}

// Title returns the document's <title> text, used for letterhead metadata
// when the SGML header is absent.
func (s *Sanitizer) Title(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("head > title").First().Text())
}
