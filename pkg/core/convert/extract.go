package convert

import (
	"fmt"
	"regexp"
	"strings"
)

// Status tags how much confidence an extraction deserves. Degraded output is
// still rendered, with an in-document notice, never silently dropped.
type Status int

const (
	// StatusFull means at least one substantial narrative section was found.
	StatusFull Status = iota
	// StatusDegraded means the bounded-prefix fallback was used.
	StatusDegraded
	// StatusFailed means nothing renderable could be recovered.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFull:
		return "full"
	case StatusDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// Extraction is the narrative recovered from one raw document.
type Extraction struct {
	Text      string
	Status    Status
	Reason    string // why the result is degraded or failed
	Truncated bool   // exhibits-only filing, narrative items missing
}

// ExtractOptions control which envelope sections count as primary content.
type ExtractOptions struct {
	// FormType is the requested filing type, e.g. "10-K". Sections of this
	// type sort ahead of exhibits.
	FormType string
	// IncludeAttachments keeps exhibit sections after the primary content.
	// When false only primary sections are emitted.
	IncludeAttachments bool
}

const (
	// substantialContent is the minimum cleaned length for a section to
	// contribute output.
	substantialContent = 200
	// degradedPrefix bounds the raw-text fallback when no section qualifies.
	degradedPrefix = 50 * 1024
	// truncatedFilingLimit: exhibits-only filings are short; anything larger
	// is assumed to carry its narrative somewhere.
	truncatedFilingLimit = 100 * 1024
)

var (
	reDocSection = regexp.MustCompile(`(?is)<DOCUMENT>(.*?)</DOCUMENT>`)
	reDocType    = regexp.MustCompile(`(?i)<TYPE>([^<\r\n]+)`)
	reDocText    = regexp.MustCompile(`(?is)<TEXT>(.*?)(?:</TEXT>|$)`)

	reExhibitMarkers = regexp.MustCompile(`(?i)Part IV|Item 15|Exhibit|SIGNATURES`)
	reNarrativeItems = regexp.MustCompile(`(?i)Item 1\.\s*Business|Item 1A\.\s*Risk|Item 2\.\s*Properties`)
)

// excludedSectionTypes never contribute narrative: raw XBRL instance
// documents, taxonomy linkbases, graphics and spreadsheets.
var excludedSectionTypes = map[string]bool{
	"XML": true, "GRAPHIC": true, "EXCEL": true, "JSON": true, "ZIP": true,
	"EX-101.SCH": true, "EX-101.CAL": true, "EX-101.DEF": true,
	"EX-101.LAB": true, "EX-101.PRE": true, "EX-101.INS": true,
}

// certificationExhibits are emitted with the primary content: subsidiaries,
// auditor consent and the SOX certifications that belong with the report body.
var certificationExhibits = map[string]bool{
	"EX-21.1": true, "EX-23.1": true,
	"EX-31.1": true, "EX-31.2": true,
	"EX-32.1": true, "EX-32.2": true,
}

func isPrimaryType(docType, formType string) bool {
	t := strings.ToUpper(strings.TrimSpace(docType))
	if formType != "" && t == strings.ToUpper(formType) {
		return true
	}
	switch t {
	case "10-K", "10-Q", "8-K":
		return true
	}
	return certificationExhibits[t]
}

// ExtractReport splits a raw submission into its envelope sections, drops
// technical ones, cleans the rest and concatenates primary sections before
// exhibits, each under a type banner. When no section carries substantial
// content the result is a bounded prefix of the cleaned raw text, tagged
// degraded so the renderer can say so.
func ExtractReport(raw []byte, opts ExtractOptions) Extraction {
	text := string(raw)

	sections := reDocSection.FindAllStringSubmatch(text, -1)
	if len(sections) == 0 {
		// No envelope: a standalone document. Clean it whole.
		return extractBare(text)
	}

	var primary, exhibits []string
	for _, sec := range sections {
		body := sec[1]

		docType := "UNKNOWN"
		if m := reDocType.FindStringSubmatch(body); m != nil {
			docType = strings.TrimSpace(m[1])
		}
		if excludedSectionTypes[strings.ToUpper(docType)] {
			continue
		}

		content := body
		if m := reDocText.FindStringSubmatch(body); m != nil {
			content = m[1]
		}
		cleaned := CleanDocumentText(content)
		if len(cleaned) < substantialContent {
			continue
		}

		banner := fmt.Sprintf("=== %s ===\n%s\n", docType, cleaned)
		if isPrimaryType(docType, opts.FormType) {
			primary = append(primary, banner)
		} else {
			exhibits = append(exhibits, banner)
		}
	}

	parts := primary
	if opts.IncludeAttachments {
		parts = append(parts, exhibits...)
	}

	if len(parts) == 0 {
		cleaned := CleanDocumentText(text)
		if len(cleaned) == 0 {
			return Extraction{Status: StatusFailed, Reason: "no renderable content in any section"}
		}
		if len(cleaned) > degradedPrefix {
			cleaned = cleaned[:degradedPrefix]
		}
		return Extraction{
			Text:      cleaned,
			Status:    StatusDegraded,
			Reason:    "no section carried substantial content; showing a bounded prefix of the raw text",
			Truncated: detectTruncated(cleaned),
		}
	}

	narrative := strings.Join(parts, "\n\n")
	return Extraction{
		Text:      narrative,
		Status:    StatusFull,
		Truncated: detectTruncated(narrative),
	}
}

func extractBare(text string) Extraction {
	cleaned := CleanDocumentText(text)
	if len(cleaned) == 0 {
		return Extraction{Status: StatusFailed, Reason: "document is empty after cleanup"}
	}
	if len(cleaned) < substantialContent {
		return Extraction{
			Text:      cleaned,
			Status:    StatusDegraded,
			Reason:    "document carries almost no narrative text",
			Truncated: detectTruncated(cleaned),
		}
	}
	return Extraction{Text: cleaned, Status: StatusFull, Truncated: detectTruncated(cleaned)}
}

// detectTruncated flags exhibits-only submissions: exhibit and signature
// markers present, the narrative item headers absent, and the whole thing
// short. Some iXBRL filings ship narrative and exhibits as separate files.
func detectTruncated(narrative string) bool {
	if len(narrative) >= truncatedFilingLimit {
		return false
	}
	return reExhibitMarkers.MatchString(narrative) && !reNarrativeItems.MatchString(narrative)
}
