package convert

import (
	"regexp"
	"strings"
	"time"
)

// Metadata is the letterhead block of a rendered filing.
type Metadata struct {
	CompanyName    string
	DocumentType   string
	AccessionID    string
	FilingDate     string // YYYY-MM-DD
	SourceFilename string
	GeneratedAt    time.Time
}

var (
	reHeaderCompany   = regexp.MustCompile(`COMPANY CONFORMED NAME:\s*(.+)`)
	reHeaderAccession = regexp.MustCompile(`ACCESSION NUMBER:\s*(\d{10}-\d{2}-\d{6})`)
	reHeaderFiled     = regexp.MustCompile(`FILED AS OF DATE:\s*(\d{8})`)
	reHeaderFormType  = regexp.MustCompile(`CONFORMED SUBMISSION TYPE:\s*(.+)`)

	reFileAccession = regexp.MustCompile(`\d{10}-\d{2}-\d{6}`)
	reFileDate      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ExtractMetadata recovers letterhead fields from a raw document, for
// standalone conversions where the caller has no filing record: SGML header
// fields first, then the HTML title, then patterns in the filename.
func ExtractMetadata(raw []byte, filename string) Metadata {
	text := string(raw)
	meta := Metadata{
		CompanyName:    "Unknown Company",
		DocumentType:   "10-K",
		AccessionID:    "Unknown",
		FilingDate:     "Unknown",
		SourceFilename: filename,
		GeneratedAt:    time.Now(),
	}

	if m := reHeaderCompany.FindStringSubmatch(text); m != nil {
		meta.CompanyName = strings.TrimSpace(m[1])
	}
	if m := reHeaderAccession.FindStringSubmatch(text); m != nil {
		meta.AccessionID = m[1]
	}
	if m := reHeaderFiled.FindStringSubmatch(text); m != nil {
		d := m[1]
		meta.FilingDate = d[:4] + "-" + d[4:6] + "-" + d[6:8]
	}
	if m := reHeaderFormType.FindStringSubmatch(text); m != nil {
		meta.DocumentType = strings.TrimSpace(m[1])
	}

	// iXBRL documents without an SGML header usually carry a usable title.
	if meta.CompanyName == "Unknown Company" && Classify(raw) == FormatIXBRL {
		var s Sanitizer
		if title := s.Title(text); title != "" {
			meta.CompanyName = title
		}
	}

	// Filename patterns as last resort, the download layer embeds both.
	if meta.AccessionID == "Unknown" {
		if m := reFileAccession.FindString(filename); m != "" {
			meta.AccessionID = m
		}
	}
	if meta.FilingDate == "Unknown" {
		if m := reFileDate.FindString(filename); m != "" {
			meta.FilingDate = m
		}
	}
	return meta
}
