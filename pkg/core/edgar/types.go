// Package edgar is the SEC EDGAR access layer: ticker registry resolution,
// per-company filing history, and retrieval of filing documents or the
// complete submission text.
package edgar

import (
	"fmt"
	"strings"
)

// Company identifies one registrant from the bulk ticker registry.
type Company struct {
	Ticker string `json:"ticker"`
	CIK    string `json:"cik"`   // 10-digit zero-padded string
	Title  string `json:"title"` // display name as registered with the SEC
}

// Filing is one row of a company's filing history, most recent first as
// served by the submissions feed.
type Filing struct {
	CIK             string `json:"cik"` // 10-digit zero-padded string
	Form            string `json:"form"`
	FilingDate      string `json:"filing_date"` // YYYY-MM-DD
	AccessionNumber string `json:"accession_number"`
	PrimaryDocument string `json:"primary_document"`
	FileNumber      string `json:"file_number"`
}

// AccessionNoDashes returns the accession number in archive-path form.
func (f Filing) AccessionNoDashes() string {
	return strings.ReplaceAll(f.AccessionNumber, "-", "")
}

// ArchiveBase returns the directory URL of this filing under the EDGAR
// archives root. Archive paths use the CIK without leading zeros.
func (f Filing) ArchiveBase(edgarURL string) string {
	return fmt.Sprintf("%s/data/%s/%s",
		strings.TrimRight(edgarURL, "/"),
		strings.TrimLeft(f.CIK, "0"),
		f.AccessionNoDashes())
}

// SubmissionTextURL returns the complete-submission text blob URL, the
// concatenation of every constituent document with SGML delimiters.
func (f Filing) SubmissionTextURL(edgarURL string) string {
	return fmt.Sprintf("%s/%s.txt", f.ArchiveBase(edgarURL), f.AccessionNumber)
}

// DocumentURL returns the URL of one constituent document.
func (f Filing) DocumentURL(edgarURL, name string) string {
	return fmt.Sprintf("%s/%s", f.ArchiveBase(edgarURL), name)
}

// Document describes one constituent file of a filing, taken from the
// accession's index feed.
type Document struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}
