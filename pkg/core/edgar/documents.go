package edgar

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// filingIndex mirrors the accession's index.json feed.
type filingIndex struct {
	Directory struct {
		Item []struct {
			Name         string `json:"name"`
			Type         string `json:"type"`
			Size         string `json:"size"`
			LastModified string `json:"last-modified"`
		} `json:"item"`
	} `json:"directory"`
}

// FetchFilingIndex lists the constituent documents of a filing.
func (c *Client) FetchFilingIndex(ctx context.Context, f Filing) ([]Document, error) {
	url := f.ArchiveBase(c.edgarURL) + "/index.json"

	var idx filingIndex
	if err := c.getJSON(ctx, url, &idx); err != nil {
		return nil, fmt.Errorf("fetch filing index %s: %w", f.AccessionNumber, err)
	}

	docs := make([]Document, 0, len(idx.Directory.Item))
	for _, item := range idx.Directory.Item {
		size, _ := strconv.ParseInt(item.Size, 10, 64)
		docs = append(docs, Document{
			Name: item.Name,
			Type: item.Type,
			Size: size,
			URL:  f.DocumentURL(c.edgarURL, item.Name),
		})
	}
	return docs, nil
}

// FetchSubmissionText downloads the complete-submission text blob: every
// constituent document concatenated with SGML delimiters.
func (c *Client) FetchSubmissionText(ctx context.Context, f Filing) ([]byte, error) {
	data, err := c.getDocument(ctx, f.SubmissionTextURL(c.edgarURL))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("submission text %s: empty body", f.AccessionNumber)
	}
	return data, nil
}

// FetchDocument downloads a single named document of a filing.
func (c *Client) FetchDocument(ctx context.Context, f Filing, name string) ([]byte, error) {
	return c.getDocument(ctx, f.DocumentURL(c.edgarURL, name))
}

// FetchSubmission retrieves the raw text of a filing. The complete-submission
// blob is preferred: one round trip, no representation ambiguity. When the
// blob endpoint fails, the filing's index is enumerated instead and the
// narrative documents are fetched and stitched back into the same SGML
// envelope shape, so downstream handling stays uniform.
func (c *Client) FetchSubmission(ctx context.Context, f Filing) ([]byte, error) {
	blob, blobErr := c.FetchSubmissionText(ctx, f)
	if blobErr == nil {
		return blob, nil
	}
	c.log.Warnf("complete submission text unavailable for %s (%v), falling back to per-document fetch", f.AccessionNumber, blobErr)

	docs, err := c.FetchFilingIndex(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("submission %s: blob failed (%v) and index fallback failed: %w", f.AccessionNumber, blobErr, err)
	}

	ranked := RankDocuments(docs, f)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("submission %s: no fetchable narrative documents in index", f.AccessionNumber)
	}

	var b strings.Builder
	writeSyntheticHeader(&b, f)
	seq := 0
	for _, doc := range ranked {
		body, err := c.getDocument(ctx, doc.URL)
		if err != nil {
			c.log.Warnf("skipping document %s of %s: %v", doc.Name, f.AccessionNumber, err)
			continue
		}
		seq++
		docType := doc.Type
		if docType == "" {
			docType = f.Form
		}
		fmt.Fprintf(&b, "<DOCUMENT>\n<TYPE>%s\n<SEQUENCE>%d\n<FILENAME>%s\n<TEXT>\n", docType, seq, doc.Name)
		b.Write(body)
		b.WriteString("\n</TEXT>\n</DOCUMENT>\n")
	}
	b.WriteString("</SEC-DOCUMENT>\n")

	if seq == 0 {
		return nil, fmt.Errorf("submission %s: every fallback document fetch failed", f.AccessionNumber)
	}
	return []byte(b.String()), nil
}

// writeSyntheticHeader emits a minimal SGML header so stitched fallback text
// classifies and extracts like a real complete submission.
func writeSyntheticHeader(b *strings.Builder, f Filing) {
	fmt.Fprintf(b, "<SEC-DOCUMENT>%s.txt : %s\n", f.AccessionNumber, f.FilingDate)
	b.WriteString("<SEC-HEADER>\n")
	fmt.Fprintf(b, "ACCESSION NUMBER:\t%s\n", f.AccessionNumber)
	fmt.Fprintf(b, "CONFORMED SUBMISSION TYPE:\t%s\n", f.Form)
	fmt.Fprintf(b, "FILED AS OF DATE:\t%s\n", strings.ReplaceAll(f.FilingDate, "-", ""))
	b.WriteString("</SEC-HEADER>\n")
}

var viewerArtifact = regexp.MustCompile(`^R\d+\.htm$`)

// technical document types and extensions that never carry narrative.
var (
	excludedDocTypes = map[string]bool{
		"XML": true, "GRAPHIC": true, "EXCEL": true, "JSON": true, "ZIP": true,
		"EX-101.SCH": true, "EX-101.CAL": true, "EX-101.DEF": true,
		"EX-101.LAB": true, "EX-101.PRE": true,
	}
	excludedDocExts = map[string]bool{
		".xml": true, ".xsd": true, ".jpg": true, ".jpeg": true, ".png": true,
		".gif": true, ".zip": true, ".xlsx": true, ".xls": true, ".json": true,
		".css": true, ".js": true, ".pdf": true,
	}
)

func fetchable(d Document) bool {
	name := strings.ToLower(d.Name)
	if name == "" || strings.Contains(name, "index") {
		return false
	}
	if viewerArtifact.MatchString(d.Name) {
		return false
	}
	if excludedDocTypes[strings.ToUpper(d.Type)] {
		return false
	}
	if excludedDocExts[path.Ext(name)] {
		return false
	}
	ext := path.Ext(name)
	return ext == ".htm" || ext == ".html" || ext == ".txt"
}

func isExhibit(d Document) bool {
	return strings.HasPrefix(strings.ToUpper(d.Type), "EX-")
}

// RankDocuments orders a filing's documents for fetching and primary-content
// selection: the declared primary document first, then the largest
// non-exhibit narrative documents, then exhibits in index order. Viewer
// artifacts, index pages and technical file types are dropped entirely.
func RankDocuments(docs []Document, f Filing) []Document {
	var primary, body, exhibits []Document
	for _, d := range docs {
		if !fetchable(d) {
			continue
		}
		switch {
		case d.Name == f.PrimaryDocument:
			primary = append(primary, d)
		case isExhibit(d):
			exhibits = append(exhibits, d)
		default:
			body = append(body, d)
		}
	}
	// Largest narrative document first: the main report body dwarfs cover
	// pages and stub documents.
	sort.SliceStable(body, func(i, j int) bool { return body[i].Size > body[j].Size })

	out := make([]Document, 0, len(primary)+len(body)+len(exhibits))
	out = append(out, primary...)
	out = append(out, body...)
	out = append(out, exhibits...)
	return out
}

// PickPrimary selects the single best document to represent a filing when
// only one can be used: the declared primary document when present, else the
// largest non-exhibit HTML or text document.
func PickPrimary(docs []Document, f Filing) (Document, bool) {
	ranked := RankDocuments(docs, f)
	for _, d := range ranked {
		if !isExhibit(d) {
			return d, true
		}
	}
	if len(ranked) > 0 {
		return ranked[0], true
	}
	return Document{}, false
}
