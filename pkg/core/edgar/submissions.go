package edgar

import (
	"context"
	"fmt"
	"time"
)

// submissionsResponse mirrors the shape of the per-company submissions feed.
// The recent filings come as parallel arrays, one index per filing.
type submissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent recentFilings `json:"recent"`
	} `json:"filings"`
}

type recentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
	FileNumber      []string `json:"fileNumber"`
}

// ListFilings reads the filing history for a zero-padded CIK and returns the
// most recent filings whose form matches formType exactly, preserving feed
// order. limit caps the result (<= 0 means no cap); yearsBack > 0 drops
// filings older than that many years.
func (c *Client) ListFilings(ctx context.Context, cik, formType string, limit, yearsBack int) ([]Filing, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.apiURL, cik)

	var subs submissionsResponse
	if err := c.getJSON(ctx, url, &subs); err != nil {
		return nil, fmt.Errorf("fetch submissions for CIK %s: %w", cik, err)
	}

	var cutoff string
	if yearsBack > 0 {
		cutoff = time.Now().AddDate(-yearsBack, 0, 0).Format("2006-01-02")
	}

	recent := subs.Filings.Recent
	var filings []Filing
	for i, form := range recent.Form {
		if form != formType {
			continue
		}
		// The feed's arrays can be ragged; index each defensively.
		f := Filing{CIK: cik, Form: form}
		if i < len(recent.AccessionNumber) {
			f.AccessionNumber = recent.AccessionNumber[i]
		}
		if i < len(recent.FilingDate) {
			f.FilingDate = recent.FilingDate[i]
		}
		if i < len(recent.PrimaryDocument) {
			f.PrimaryDocument = recent.PrimaryDocument[i]
		}
		if i < len(recent.FileNumber) {
			f.FileNumber = recent.FileNumber[i]
		}
		if f.AccessionNumber == "" {
			continue
		}
		if cutoff != "" && f.FilingDate != "" && f.FilingDate < cutoff {
			continue
		}
		filings = append(filings, f)
		if limit > 0 && len(filings) >= limit {
			break
		}
	}
	return filings, nil
}
