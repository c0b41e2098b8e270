package convert

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

// sectionTitleRes match the structural 10-K headers: parts, items and note
// numbers. Case-insensitive prefix patterns, anchored to the whole line.
var sectionTitleRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Part\s+[IVX]+\b`),
	regexp.MustCompile(`(?i)^Item\s+\d+[A-Z]?\.`),
	regexp.MustCompile(`^===\s.+\s===$`),
	regexp.MustCompile(`^SIGNATURES$`),
}

// sectionTitleLexicon lists the common standalone SEC section names. Matching
// is exact against the trimmed line; this is a heuristic over a fixed title
// list, not heading inference, and may tag prose that repeats a title.
var sectionTitleLexicon = map[string]bool{}

func init() {
	for _, title := range []string{
		"Overview", "Competition", "Risk Management", "Regulation",
		"Corporate Responsibility", "Human Capital Resources",
		"Intellectual Property", "Available Information",
		"Information about our Executive Officers", "Executive Summary",
		"Key Operating Measures", "Macroeconomic, Industry and Regulatory Trends",
		"Non-GAAP Financial Measures", "Consolidated Results of Operations",
		"Segment Results of Operations", "Investments",
		"Policy and Contract Liabilities", "Liquidity and Capital Resources",
		"Impact of Recent Accounting Pronouncements",
		"Critical Accounting Estimates",
		"Reference to Financial Statements and Schedules",
		"Changes in and Disagreements with Accountants on Accounting and Financial Disclosure",
		"Controls and Procedures", "Other Information",
		"Disclosure Regarding Foreign Jurisdictions that Prevent Inspections",
		"Directors, Executive Officers and Corporate Governance",
		"Executive Compensation",
		"Security Ownership of Certain Beneficial Owners and Management and Related Shareholder Matters",
		"Certain Relationships and Related Transactions, and Director Independence",
		"Principal Accountant Fees and Services",
	} {
		sectionTitleLexicon[strings.ToLower(title)] = true
	}
}

func isSectionTitle(line string) bool {
	for _, re := range sectionTitleRes {
		if re.MatchString(line) {
			return true
		}
	}
	return sectionTitleLexicon[strings.ToLower(line)]
}

// formatSections escapes the narrative and wraps recognized section titles in
// <strong> so the pre-wrap content block shows them as emphasized labels.
func formatSections(narrative string) template.HTML {
	lines := strings.Split(narrative, "\n")
	var b strings.Builder
	b.Grow(len(narrative) + len(narrative)/8)
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && isSectionTitle(trimmed) {
			b.WriteString("<strong>")
			b.WriteString(html.EscapeString(trimmed))
			b.WriteString("</strong>")
			continue
		}
		b.WriteString(html.EscapeString(line))
	}
	return template.HTML(b.String())
}

var letterheadTmpl = template.Must(template.New("filing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Meta.CompanyName}} - {{.Meta.DocumentType}}</title>
<style>
body {
    font-family: 'Times New Roman', serif;
    line-height: 1.6;
    margin: 0 auto;
    padding: 20px;
    color: #333;
    background: white;
    max-width: 1200px;
}
.header {
    text-align: center;
    border-bottom: 3px solid #2c3e50;
    padding: 20px;
    margin-bottom: 30px;
    background: #f8f9fa;
}
.company-name {
    font-size: 24px;
    font-weight: bold;
    color: #2c3e50;
    margin-bottom: 10px;
}
.document-type {
    font-size: 18px;
    color: #7f8c8d;
    margin-bottom: 10px;
}
.filing-info {
    font-size: 14px;
    color: #7f8c8d;
}
.notice {
    background-color: #fff3cd;
    border: 1px solid #ffeaa7;
    color: #856404;
    padding: 15px;
    border-radius: 5px;
    margin-bottom: 20px;
}
.content {
    white-space: pre-wrap;
    word-wrap: break-word;
    font-size: 12px;
    line-height: 1.5;
}
.content strong {
    font-weight: bold;
    color: #2c3e50;
    font-size: 13px;
    display: block;
    margin: 8px 0 4px 0;
}
@media print {
    body { margin: 15px; }
    .header { page-break-after: avoid; }
}
</style>
</head>
<body>
<div class="header">
    <div class="company-name">{{.Meta.CompanyName}}</div>
    <div class="document-type">{{.Meta.DocumentType}}</div>
    <div class="filing-info">
        <div>Accession Number: {{.Meta.AccessionID}}</div>
        <div>Filing Date: {{.Meta.FilingDate}}</div>
        <div>Source: {{.Meta.SourceFilename}}</div>
        <div>Generated: {{.Generated}}</div>
    </div>
</div>
{{if .TruncatedNotice}}<div class="notice"><strong>Notice:</strong> This appears to be a truncated filing containing only exhibits, signatures and regulatory content. The main narrative sections (Item 1. Business, Item 1A. Risk Factors, Item 2. Properties) are not present in the source file.</div>
{{end}}{{if .DegradedNotice}}<div class="notice"><strong>Notice:</strong> Best-effort rendering. {{.DegradedNotice}}</div>
{{end}}<div class="content">{{.Content}}</div>
</body>
</html>
`))

// RenderHTML wraps an extraction in the letterhead template: a single
// self-contained document with inline styling and no external resources.
// Deterministic for the same input except for the generation timestamp.
func RenderHTML(ex Extraction, meta Metadata) (string, error) {
	data := struct {
		Meta            Metadata
		Generated       string
		Content         template.HTML
		TruncatedNotice bool
		DegradedNotice  string
	}{
		Meta:            meta,
		Generated:       meta.GeneratedAt.Format("2006-01-02 15:04:05"),
		Content:         formatSections(ex.Text),
		TruncatedNotice: ex.Truncated,
	}
	if ex.Status == StatusDegraded {
		data.DegradedNotice = ex.Reason
	}

	var buf bytes.Buffer
	if err := letterheadTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render letterhead HTML: %w", err)
	}
	return buf.String(), nil
}
