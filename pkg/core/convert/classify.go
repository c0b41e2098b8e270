// Package convert turns raw SEC filing documents into readable HTML,
// Markdown and PDF artifacts: format classification, narrative extraction
// from the SGML submission envelope, letterhead rendering, and a ranked
// chain of PDF engines.
package convert

import "strings"

// Format is the detected encoding of a raw filing document.
type Format int

const (
	// FormatPlainText is anything without iXBRL or SGML envelope markers.
	FormatPlainText Format = iota
	// FormatSECWrapper is the SGML multi-document submission envelope.
	FormatSECWrapper
	// FormatIXBRL is inline-XBRL-tagged HTML. iXBRL filings are usually
	// also SGML-wrapped, so this takes precedence over FormatSECWrapper.
	FormatIXBRL
)

func (f Format) String() string {
	switch f {
	case FormatIXBRL:
		return "ixbrl"
	case FormatSECWrapper:
		return "sec-wrapper"
	default:
		return "plain-text"
	}
}

var ixbrlMarkers = []string{
	"ix:nonnumeric",
	"ix:numeric",
	"ix:nonfraction",
	"ix:hidden",
	"xmlns:ix=",
	"ix:format",
	"ix:contextref",
}

var sgmlMarkers = []string{
	"<sec-document>",
	"<sec-header>",
	"<acceptance-datetime>",
	"accession number:",
}

// Classify inspects raw text and reports its format. Each marker check is a
// single linear substring scan over a lowercased copy of the input.
func Classify(raw []byte) Format {
	text := strings.ToLower(string(raw))
	for _, m := range ixbrlMarkers {
		if strings.Contains(text, m) {
			return FormatIXBRL
		}
	}
	for _, m := range sgmlMarkers {
		if strings.Contains(text, m) {
			return FormatSECWrapper
		}
	}
	return FormatPlainText
}
