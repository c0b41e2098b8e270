package edgar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTicker reports a ticker absent from the SEC registry. Batch
// callers treat it as skip-and-warn, not fatal.
var ErrUnknownTicker = errors.New("ticker not found in SEC registry")

// Registry is the bulk ticker-to-CIK mapping, fetched once per run.
type Registry struct {
	companies []Company
	byTicker  map[string]int
}

// FetchTickerRegistry downloads company_tickers.json, a JSON object of
// opaque keys to {cik_str, ticker, title} triples.
func (c *Client) FetchTickerRegistry(ctx context.Context) (*Registry, error) {
	url := c.baseURL + "/files/company_tickers.json"

	var raw map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, fmt.Errorf("fetch ticker registry: %w", err)
	}

	reg := &Registry{
		companies: make([]Company, 0, len(raw)),
		byTicker:  make(map[string]int, len(raw)),
	}
	for _, entry := range raw {
		if entry.Ticker == "" {
			continue
		}
		reg.companies = append(reg.companies, Company{
			Ticker: entry.Ticker,
			CIK:    fmt.Sprintf("%010d", entry.CIK),
			Title:  entry.Title,
		})
	}
	sort.Slice(reg.companies, func(i, j int) bool {
		return reg.companies[i].Ticker < reg.companies[j].Ticker
	})
	for i, co := range reg.companies {
		key := strings.ToUpper(co.Ticker)
		if _, dup := reg.byTicker[key]; !dup {
			reg.byTicker[key] = i
		}
	}
	return reg, nil
}

// Len reports how many companies the registry holds.
func (r *Registry) Len() int { return len(r.companies) }

// Resolve maps a ticker to its Company record, case-insensitively.
func (r *Registry) Resolve(ticker string) (Company, error) {
	i, ok := r.byTicker[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return Company{}, fmt.Errorf("%q: %w", ticker, ErrUnknownTicker)
	}
	return r.companies[i], nil
}

// Search returns companies whose ticker or title contains the query,
// case-insensitively, in ticker order. An empty query returns everything;
// limit <= 0 means no limit.
func (r *Registry) Search(query string, limit int) []Company {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []Company
	for _, co := range r.companies {
		if query != "" &&
			!strings.Contains(strings.ToLower(co.Ticker), query) &&
			!strings.Contains(strings.ToLower(co.Title), query) {
			continue
		}
		out = append(out, co)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
