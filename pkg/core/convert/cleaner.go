package convert

import (
	"html"
	"regexp"
	"strings"
)

// The cleaning pipeline is regex-over-string on purpose: filing sections are
// frequently malformed fragments that no HTML parser round-trips faithfully,
// and all we want out of them is narrative text.
var (
	reScriptBlock = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyleBlock  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reComment     = regexp.MustCompile(`(?s)<!--.*?-->`)

	reStyleAttr = regexp.MustCompile(`(?i)\s(?:style|class|id)="[^"]*"`)

	reBreak    = regexp.MustCompile(`(?i)<br\s*/?>`)
	reParaTag  = regexp.MustCompile(`(?i)</?p[^>]*>`)
	reDivTag   = regexp.MustCompile(`(?i)</?div[^>]*>`)
	reSpanTag  = regexp.MustCompile(`(?i)</?span[^>]*>`)
	reAnyTag   = regexp.MustCompile(`<[^>]+>`)
	reJSVar    = regexp.MustCompile(`(?s)var\s+\w+\s*=.*?;`)
	reJSFunc   = regexp.MustCompile(`(?s)function\s+\w+.*?}`)
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reBlankRun = regexp.MustCompile(`\n\s*\n\s*\n+`)

	// Noise lines: bare numbers, long technical identifiers, hex digests.
	reNumberLine = regexp.MustCompile(`^\d+$`)
	reTechID     = regexp.MustCompile(`^[A-Z0-9\-_]{20,}$`)
	reHexLine    = regexp.MustCompile(`^[a-f0-9]{32,}$`)
	reSentence   = regexp.MustCompile(`[.!?]`)
)

// CleanDocumentText strips markup from one envelope section and drops lines
// that are technical noise rather than narrative.
func CleanDocumentText(text string) string {
	text = reScriptBlock.ReplaceAllString(text, "")
	text = reStyleBlock.ReplaceAllString(text, "")
	text = reComment.ReplaceAllString(text, "")
	text = reStyleAttr.ReplaceAllString(text, "")

	text = reBreak.ReplaceAllString(text, "\n")
	text = reParaTag.ReplaceAllString(text, "\n")
	text = reDivTag.ReplaceAllString(text, "\n")
	text = reSpanTag.ReplaceAllString(text, "")

	text = reJSVar.ReplaceAllString(text, "")
	text = reJSFunc.ReplaceAllString(text, "")

	text = reAnyTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	text = reSpaces.ReplaceAllString(text, " ")
	text = reBlankRun.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			cleaned = append(cleaned, "")
			continue
		}
		if isNoiseLine(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	out := strings.Join(cleaned, "\n")
	out = reBlankRun.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

func isNoiseLine(line string) bool {
	switch {
	case reNumberLine.MatchString(line),
		reTechID.MatchString(line),
		reHexLine.MatchString(line):
		return true
	case strings.HasPrefix(line, "// Edgar"),
		strings.HasPrefix(line, "var "),
		strings.HasPrefix(line, "function "),
		strings.HasPrefix(line, "/*"),
		strings.HasPrefix(line, "*/"):
		return true
	case len(line) > 500 && !reSentence.MatchString(line):
		// Base64 blobs and minified fragments run long with no sentences.
		return true
	}
	return false
}
