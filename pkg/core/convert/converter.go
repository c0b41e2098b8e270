package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Converter runs the whole normalization pipeline for one raw document:
// classify, extract, render HTML and then the requested output format.
// Conversions are independent of each other and idempotent apart from the
// embedded generation timestamp.
type Converter struct {
	// OutputFormat is "pdf", "html" or "markdown". "pdf" keeps the
	// intermediate HTML next to the PDF.
	OutputFormat string
	// FormType marks which envelope sections are primary (default "10-K").
	FormType string
	// IncludeAttachments keeps exhibit sections after the primary content.
	IncludeAttachments bool

	pdf *PDFRenderer
	san Sanitizer
	log *zap.SugaredLogger
}

// NewConverter builds a Converter. A nil logger discards diagnostics.
func NewConverter(outputFormat, formType string, includeAttachments bool, log *zap.SugaredLogger) *Converter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if formType == "" {
		formType = "10-K"
	}
	return &Converter{
		OutputFormat:       strings.ToLower(outputFormat),
		FormType:           formType,
		IncludeAttachments: includeAttachments,
		pdf:                NewPDFRenderer(log),
		log:                log,
	}
}

// Extract derives the narrative from raw bytes according to the classified
// format. Standalone iXBRL documents (no SGML envelope) go through the HTML
// sanitizer; everything else through the envelope extractor.
func (c *Converter) Extract(raw []byte) Extraction {
	format := Classify(raw)
	c.log.Debugf("classified document as %s", format)

	if format == FormatIXBRL && !reDocSection.Match(raw) {
		text := c.san.NarrativeFromHTML(string(raw))
		if strings.TrimSpace(text) == "" {
			return Extraction{Status: StatusFailed, Reason: "iXBRL document yielded no text"}
		}
		ex := Extraction{Text: text, Status: StatusFull, Truncated: detectTruncated(text)}
		if len(text) < substantialContent {
			ex.Status = StatusDegraded
			ex.Reason = "iXBRL document carries almost no narrative text"
		}
		return ex
	}

	return ExtractReport(raw, ExtractOptions{
		FormType:           c.FormType,
		IncludeAttachments: c.IncludeAttachments,
	})
}

// ConvertRaw converts one raw document and writes the artifacts next to
// outStem (a path without extension). Returns the paths written.
func (c *Converter) ConvertRaw(raw []byte, meta Metadata, outStem string) ([]string, error) {
	ex := c.Extract(raw)
	if ex.Status == StatusFailed {
		return nil, fmt.Errorf("extract %s: %s", meta.SourceFilename, ex.Reason)
	}
	if ex.Status == StatusDegraded {
		c.log.Warnf("degraded extraction for %s: %s", meta.SourceFilename, ex.Reason)
	}
	if ex.Truncated {
		c.log.Warnf("%s looks like a truncated filing (exhibits only); the output carries a notice", meta.SourceFilename)
	}

	htmlDoc, err := RenderHTML(ex, meta)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(outStem), 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	switch c.OutputFormat {
	case "markdown":
		md, err := RenderMarkdown(ex, meta)
		if err != nil {
			return nil, err
		}
		path := outStem + ".md"
		if err := os.WriteFile(path, []byte(md), 0644); err != nil {
			return nil, fmt.Errorf("write markdown: %w", err)
		}
		written = append(written, path)
	case "html":
		path := outStem + ".html"
		if err := os.WriteFile(path, []byte(htmlDoc), 0644); err != nil {
			return nil, fmt.Errorf("write HTML: %w", err)
		}
		written = append(written, path)
	default: // pdf keeps the HTML alongside
		htmlPath := outStem + ".html"
		if err := os.WriteFile(htmlPath, []byte(htmlDoc), 0644); err != nil {
			return nil, fmt.Errorf("write HTML: %w", err)
		}
		written = append(written, htmlPath)

		pdfPath := outStem + ".pdf"
		if err := c.pdf.RenderPDF(htmlDoc, ex.Text, pdfPath); err != nil {
			return written, fmt.Errorf("render PDF for %s: %w", meta.SourceFilename, err)
		}
		written = append(written, pdfPath)
	}
	return written, nil
}

// ConvertFile converts a previously downloaded raw file. Metadata comes from
// the SGML header, the document itself, or the filename.
func (c *Converter) ConvertFile(path, outDir string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	meta := ExtractMetadata(raw, filepath.Base(path))

	stemDir := outDir
	if stemDir == "" {
		stemDir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return c.ConvertRaw(raw, meta, filepath.Join(stemDir, base))
}

// ConvertDir walks dir for raw .txt filings and converts each one. Per-file
// failures log and count; the walk itself never aborts on them.
func (c *Converter) ConvertDir(dir, outDir string) (converted, failed int, err error) {
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".txt") {
			return nil
		}
		target := outDir
		if target == "" {
			target = filepath.Dir(path)
		}
		if _, convErr := c.ConvertFile(path, target); convErr != nil {
			c.log.Errorf("convert %s: %v", path, convErr)
			failed++
			return nil
		}
		converted++
		return nil
	})
	return converted, failed, err
}
