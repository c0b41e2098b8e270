package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// nativeEngineLimit: above this HTML size the in-process engine is skipped
// upfront rather than resource-limited internally.
const nativeEngineLimit = 10 * 1024 * 1024

// PDFRenderer converts a rendered filing to PDF through a ranked engine
// chain: the in-process HTML-aware engine, then wkhtmltopdf when installed,
// then the guaranteed plain-text layout engine. The first engine whose
// output opens as a valid PDF wins; engine-specific failures only log.
type PDFRenderer struct {
	wk  *WkhtmltopdfAdapter
	log *zap.SugaredLogger
}

// NewPDFRenderer builds a renderer. A nil logger discards engine fallthrough
// messages.
func NewPDFRenderer(log *zap.SugaredLogger) *PDFRenderer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PDFRenderer{wk: NewWkhtmltopdfAdapter(), log: log}
}

// RenderPDF writes the PDF for one filing to outPath. htmlDoc is the styled
// letterhead document; narrative is the plain extracted text the layout
// engine works from. Every engine writes to a temp file in the destination
// directory, and only a verified result is renamed into place, so a failed
// conversion never leaves a partial file at outPath.
func (r *PDFRenderer) RenderPDF(htmlDoc, narrative, outPath string) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	type engine struct {
		name string
		run  func(tmp string) error
		skip string // non-empty reason to skip upfront
	}

	engines := []engine{
		{
			name: "native",
			run:  func(tmp string) error { return renderNativePDF(htmlDoc, tmp) },
		},
		{
			name: "wkhtmltopdf",
			run:  func(tmp string) error { return r.wk.Render(htmlDoc, tmp) },
		},
		{
			name: "layout",
			run:  func(tmp string) error { return renderLayoutPDF(narrative, tmp) },
		},
	}
	if len(htmlDoc) > nativeEngineLimit {
		engines[0].skip = fmt.Sprintf("HTML is %d bytes, over the %d byte limit", len(htmlDoc), nativeEngineLimit)
	}
	if !r.wk.IsAvailable() {
		engines[1].skip = "wkhtmltopdf not found on host"
	}

	var lastErr error
	for _, eng := range engines {
		if eng.skip != "" {
			r.log.Debugf("pdf engine %s skipped: %s", eng.name, eng.skip)
			continue
		}
		tmp, err := os.CreateTemp(dir, ".pdf-*.tmp")
		if err != nil {
			return fmt.Errorf("create temp output: %w", err)
		}
		tmpPath := tmp.Name()
		tmp.Close()

		if err := eng.run(tmpPath); err != nil {
			r.log.Warnf("pdf engine %s failed: %v", eng.name, err)
			lastErr = err
			os.Remove(tmpPath)
			continue
		}
		if err := verifyPDF(tmpPath); err != nil {
			r.log.Warnf("pdf engine %s produced an unreadable file: %v", eng.name, err)
			lastErr = err
			os.Remove(tmpPath)
			continue
		}
		if err := os.Rename(tmpPath, outPath); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("place output: %w", err)
		}
		r.log.Infof("rendered %s with the %s engine", filepath.Base(outPath), eng.name)
		return nil
	}
	return fmt.Errorf("all PDF engines failed: %w", lastErr)
}

// verifyPDF gates engine output: the file must be non-empty and open as a
// PDF with at least one page before it is promoted to the final path.
func verifyPDF(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("empty output file")
	}
	f, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("open produced PDF: %w", err)
	}
	defer f.Close()
	if reader.NumPage() < 1 {
		return fmt.Errorf("produced PDF has no pages")
	}
	return nil
}
