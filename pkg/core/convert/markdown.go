package convert

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// RenderMarkdown produces the Markdown output format from a rendered filing:
// the letterhead HTML converted to Markdown, so headings, notices and the
// emphasized section labels survive.
func RenderMarkdown(ex Extraction, meta Metadata) (string, error) {
	htmlDoc, err := RenderHTML(ex, meta)
	if err != nil {
		return "", err
	}
	markdown, err := htmltomarkdown.ConvertString(htmlDoc)
	if err != nil {
		return "", fmt.Errorf("convert HTML to markdown: %w", err)
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", fmt.Errorf("markdown conversion produced no output")
	}
	return markdown + "\n", nil
}
