// Package pipeline is the batch orchestrator: resolve tickers, list filings,
// fetch submissions, store raw artifacts and optionally convert them.
// Execution is sequential throughout; the EDGAR client's limiter provides
// the inter-request spacing.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"secdl/pkg/core/convert"
	"secdl/pkg/core/edgar"
	"secdl/pkg/core/store"
)

// Downloader wires the fetch chain to the artifact store. All dependencies
// are injected; the Downloader holds no global state.
type Downloader struct {
	client     *edgar.Client
	store      *store.Store
	conv       *convert.Converter // nil disables conversion
	formTypes  []string
	maxReports int
	yearsBack  int
	log        *zap.SugaredLogger
	runID      string
}

// NewDownloader builds a Downloader. conv may be nil to download raw text
// only. formTypes defaults to 10-K and maxReports to 5 when unset.
func NewDownloader(client *edgar.Client, st *store.Store, conv *convert.Converter,
	formTypes []string, maxReports, yearsBack int, log *zap.SugaredLogger) *Downloader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if len(formTypes) == 0 {
		formTypes = []string{"10-K"}
	}
	if maxReports < 1 {
		maxReports = 5
	}
	return &Downloader{
		client:     client,
		store:      st,
		conv:       conv,
		formTypes:  formTypes,
		maxReports: maxReports,
		yearsBack:  yearsBack,
		log:        log,
		runID:      uuid.NewString(),
	}
}

// RunID identifies this batch in logs and the summary report.
func (d *Downloader) RunID() string { return d.runID }

// tickerResult tallies one ticker for the run summary.
type tickerResult struct {
	ticker     string
	company    string
	downloaded int
	skipped    int
	converted  int
	failed     int
}

// DownloadReports processes a batch of tickers and returns the artifact
// paths per ticker. Unknown tickers are warned about and omitted from the
// result; per-filing failures are logged and counted but never abort the
// batch. Only registry-level failures return an error.
func (d *Downloader) DownloadReports(ctx context.Context, tickers []string) (map[string][]string, error) {
	registry, err := d.client.FetchTickerRegistry(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker registry: %w", err)
	}
	d.log.Infof("run %s: registry loaded with %d companies", d.runID, registry.Len())

	results := make(map[string][]string)
	var tally []tickerResult

	for _, ticker := range tickers {
		company, err := registry.Resolve(ticker)
		if errors.Is(err, edgar.ErrUnknownTicker) {
			d.log.Warnf("skipping unknown ticker %q", ticker)
			continue
		}
		if err != nil {
			return results, err
		}

		res := d.processCompany(ctx, ticker, company, results)
		tally = append(tally, res)
	}

	if err := d.writeSummary(tally); err != nil {
		d.log.Warnf("write run summary: %v", err)
	}
	return results, nil
}

func (d *Downloader) processCompany(ctx context.Context, ticker string, company edgar.Company, results map[string][]string) tickerResult {
	res := tickerResult{ticker: strings.ToUpper(ticker), company: company.Title}
	results[res.ticker] = []string{}
	d.log.Infof("processing %s (%s, CIK %s)", res.ticker, company.Title, company.CIK)

	for _, form := range d.formTypes {
		filings, err := d.client.ListFilings(ctx, company.CIK, form, d.maxReports, d.yearsBack)
		if err != nil {
			d.log.Errorf("list %s filings for %s: %v", form, res.ticker, err)
			res.failed++
			continue
		}
		if len(filings) == 0 {
			d.log.Infof("no recent %s filings for %s", form, res.ticker)
			continue
		}

		for _, filing := range filings {
			paths, outcome := d.processFiling(ctx, res.ticker, company, filing)
			results[res.ticker] = append(results[res.ticker], paths...)
			switch outcome {
			case outcomeDownloaded:
				res.downloaded++
			case outcomeSkipped:
				res.skipped++
			case outcomeFailed:
				res.failed++
			}
			if d.conv != nil && len(paths) > 1 {
				res.converted++
			}
		}
	}
	return res
}

type filingOutcome int

const (
	outcomeDownloaded filingOutcome = iota
	outcomeSkipped
	outcomeFailed
)

func (d *Downloader) processFiling(ctx context.Context, ticker string, company edgar.Company, filing edgar.Filing) ([]string, filingOutcome) {
	rawPath := d.store.RawPath(ticker, filing.FilingDate, filing.Form)

	outcome := outcomeDownloaded
	var raw []byte
	if d.store.HasRaw(rawPath) {
		d.log.Infof("raw file exists, skipping download: %s", rawPath)
		outcome = outcomeSkipped
	} else {
		var err error
		raw, err = d.client.FetchSubmission(ctx, filing)
		if err != nil {
			d.log.Errorf("fetch submission %s for %s: %v", filing.AccessionNumber, ticker, err)
			return nil, outcomeFailed
		}
		if err := d.store.WriteRaw(rawPath, raw); err != nil {
			d.log.Errorf("store submission %s: %v", filing.AccessionNumber, err)
			return nil, outcomeFailed
		}
		d.log.Infof("downloaded %s (%d bytes) to %s", filing.AccessionNumber, len(raw), rawPath)
	}
	paths := []string{rawPath}

	if d.conv == nil {
		return paths, outcome
	}
	if raw == nil {
		data, err := os.ReadFile(rawPath)
		if err != nil {
			d.log.Errorf("reread raw file %s: %v", rawPath, err)
			return paths, outcomeFailed
		}
		raw = data
	}

	meta := convert.Metadata{
		CompanyName:    company.Title,
		DocumentType:   filing.Form,
		AccessionID:    filing.AccessionNumber,
		FilingDate:     filing.FilingDate,
		SourceFilename: rawPath,
		GeneratedAt:    time.Now(),
	}
	derived, err := d.conv.ConvertRaw(raw, meta, store.Stem(rawPath))
	paths = append(paths, derived...)
	if err != nil {
		d.log.Errorf("convert %s: %v", rawPath, err)
		return paths, outcomeFailed
	}
	return paths, outcome
}

// writeSummary renders the per-run report: a Markdown table in the output
// root plus an HTML rendering of the same.
func (d *Downloader) writeSummary(tally []tickerResult) error {
	if len(tally) == 0 {
		return nil
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# Download Summary\n\n")
	fmt.Fprintf(&md, "Run `%s`, completed %s.\n\n", d.runID, time.Now().Format("2006-01-02 15:04:05"))
	md.WriteString("| Ticker | Company | Downloaded | Skipped | Converted | Failed |\n")
	md.WriteString("|--------|---------|-----------:|--------:|----------:|-------:|\n")
	for _, r := range tally {
		fmt.Fprintf(&md, "| %s | %s | %d | %d | %d | %d |\n",
			r.ticker, r.company, r.downloaded, r.skipped, r.converted, r.failed)
	}

	if _, err := d.store.WriteReport("download_summary.md", []byte(md.String())); err != nil {
		return err
	}

	var body bytes.Buffer
	renderer := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := renderer.Convert([]byte(md.String()), &body); err != nil {
		return fmt.Errorf("render summary HTML: %w", err)
	}
	page := fmt.Sprintf("<!DOCTYPE html>\n<html><head><meta charset=\"UTF-8\"><title>Download Summary</title></head><body>\n%s</body></html>\n", body.String())
	_, err := d.store.WriteReport("download_summary.html", []byte(page))
	return err
}
