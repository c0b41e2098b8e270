package edgar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListFilings(t *testing.T) {
	recentYear := time.Now().Year() - 1
	feed := fmt.Sprintf(`{
	  "cik": "320193",
	  "name": "Apple Inc.",
	  "filings": {"recent": {
	    "accessionNumber": ["0000320193-24-000123", "0000320193-24-000077", "0000320193-23-000106", "0000320193-15-000001"],
	    "filingDate": ["%d-11-01", "%d-08-02", "%d-11-03", "2015-10-28"],
	    "form": ["10-K", "10-Q", "10-K", "10-K"],
	    "primaryDocument": ["aapl-10k.htm", "aapl-10q.htm", "aapl-10k.htm", "aapl-10k.htm"],
	    "fileNumber": ["001-36743", "001-36743", "001-36743"]
	  }}
	}`, recentYear, recentYear, recentYear-1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions/CIK0000320193.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(feed))
	}))
	defer srv.Close()
	c := NewClient(WithEndpoints(srv.URL, srv.URL, srv.URL), WithRequestDelay(time.Millisecond))

	tests := []struct {
		name      string
		form      string
		limit     int
		yearsBack int
		wantAccns []string
	}{
		{
			name: "exact form match, feed order", form: "10-K", limit: 0, yearsBack: 0,
			wantAccns: []string{"0000320193-24-000123", "0000320193-23-000106", "0000320193-15-000001"},
		},
		{
			name: "limit caps results", form: "10-K", limit: 1, yearsBack: 0,
			wantAccns: []string{"0000320193-24-000123"},
		},
		{
			name: "yearsBack drops old filings", form: "10-K", limit: 0, yearsBack: 5,
			wantAccns: []string{"0000320193-24-000123", "0000320193-23-000106"},
		},
		{
			name: "10-K does not match 10-Q", form: "10-Q", limit: 0, yearsBack: 0,
			wantAccns: []string{"0000320193-24-000077"},
		},
		{
			name: "unknown form yields nothing", form: "8-K", limit: 0, yearsBack: 0,
			wantAccns: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filings, err := c.ListFilings(context.Background(), "0000320193", tt.form, tt.limit, tt.yearsBack)
			if err != nil {
				t.Fatalf("ListFilings: %v", err)
			}
			if len(filings) != len(tt.wantAccns) {
				t.Fatalf("got %d filings, want %d", len(filings), len(tt.wantAccns))
			}
			for i, f := range filings {
				if f.AccessionNumber != tt.wantAccns[i] {
					t.Errorf("filing[%d] = %s, want %s", i, f.AccessionNumber, tt.wantAccns[i])
				}
				if f.CIK != "0000320193" || f.Form != tt.form {
					t.Errorf("filing[%d] carries CIK %q form %q", i, f.CIK, f.Form)
				}
			}
		})
	}
}

func TestListFilingsRaggedArrays(t *testing.T) {
	// fileNumber is shorter than the other arrays; the last filing must still
	// come through with its remaining fields intact.
	feed := `{
	  "filings": {"recent": {
	    "accessionNumber": ["0000001234-24-000001", "0000001234-23-000001"],
	    "filingDate": ["2024-03-01", "2023-03-01"],
	    "form": ["10-K", "10-K"],
	    "primaryDocument": ["doc.htm"],
	    "fileNumber": []
	  }}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	}))
	defer srv.Close()
	c := NewClient(WithEndpoints(srv.URL, srv.URL, srv.URL), WithRequestDelay(time.Millisecond))

	filings, err := c.ListFilings(context.Background(), "0000001234", "10-K", 0, 0)
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(filings) != 2 {
		t.Fatalf("got %d filings, want 2", len(filings))
	}
	if filings[0].PrimaryDocument != "doc.htm" {
		t.Errorf("filing[0].PrimaryDocument = %q", filings[0].PrimaryDocument)
	}
	if filings[1].PrimaryDocument != "" || filings[1].FileNumber != "" {
		t.Errorf("out-of-range fields must stay empty, got %+v", filings[1])
	}
	if filings[1].AccessionNumber != "0000001234-23-000001" {
		t.Errorf("filing[1].AccessionNumber = %q", filings[1].AccessionNumber)
	}
}
