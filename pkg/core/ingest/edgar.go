// Package ingest locates filing documents for the extractor: a local archive reader and an SEC
// EDGAR client that fills the archive.
// API Documentation: https://www.sec.gov/developer
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// SEC EDGAR endpoints
	DefaultDataURL     = "https://data.sec.gov"
	DefaultArchiveURL  = "https://www.sec.gov/Archives/edgar/data"
	DefaultTickersURL  = "https://www.sec.gov/files/company_tickers.json"
	submissionsPathFmt = "/submissions/CIK%s.json"

	// Required User-Agent per SEC guidelines
	DefaultUserAgent = "AlphaEngine/1.0 (contact@example.com)"
)

// =============================================================================
// SEC EDGAR DATA TYPES
// =============================================================================

// SECCompanyInfo represents the top-level company submission response.
type SECCompanyInfo struct {
	CIK     string     `json:"cik"`
	Name    string     `json:"name"`
	Tickers []string   `json:"tickers"`
	Filings SECFilings `json:"filings"`
}

// SECFilings contains recent and older filing lists.
type SECFilings struct {
	Recent SECRecentFilings `json:"recent"`
}

// SECRecentFilings holds arrays of filing attributes (parallel arrays).
type SECRecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"` // e.g., "0000037996-24-000012"
	FilingDate      []string `json:"filingDate"`      // e.g., "2024-02-06"
	ReportDate      []string `json:"reportDate"`      // Fiscal period end
	Form            []string `json:"form"`            // "10-K", "10-Q", "8-K"
	PrimaryDocument []string `json:"primaryDocument"` // filename
}

// Filing represents a single SEC filing (denormalized from parallel arrays).
type Filing struct {
	AccessionNumber string `json:"accession_number"`
	FilingDate      string `json:"filing_date"`
	ReportDate      string `json:"report_date"`
	FormType        string `json:"form_type"`
	PrimaryDocument string `json:"primary_document"`
	URL             string `json:"url"`
}

// =============================================================================
// SEC EDGAR CLIENT
// =============================================================================

// EDGARClient handles SEC EDGAR API requests.
type EDGARClient struct {
	httpClient *http.Client

	DataURL    string
	ArchiveURL string
	TickersURL string
	UserAgent  string
}

// NewEDGARClient creates a new SEC EDGAR API client.
func NewEDGARClient(userAgent string) *EDGARClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &EDGARClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		DataURL:    DefaultDataURL,
		ArchiveURL: DefaultArchiveURL,
		TickersURL: DefaultTickersURL,
		UserAgent:  userAgent,
	}
}

func (c *EDGARClient) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// SEC requires User-Agent header
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SEC request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SEC returned status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// LookupCIK finds the zero-padded CIK for a ticker symbol using the SEC ticker mapping file.
func (c *EDGARClient) LookupCIK(ctx context.Context, ticker string) (string, error) {
	body, err := c.get(ctx, c.TickersURL, "application/json")
	if err != nil {
		return "", fmt.Errorf("failed to fetch ticker mapping: %w", err)
	}

	// Response structure: { "0": {"cik_str": 320193, "ticker": "AAPL", "title": "..."}, ... }
	var mapping map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal(body, &mapping); err != nil {
		return "", fmt.Errorf("failed to parse ticker mapping: %w", err)
	}

	ticker = strings.ToUpper(ticker)
	for _, entry := range mapping {
		if entry.Ticker == ticker {
			return fmt.Sprintf("%010d", entry.CIK), nil
		}
	}
	return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
}

// FetchCompanyInfo retrieves company submission data. The CIK is zero-padded to 10 digits.
func (c *EDGARClient) FetchCompanyInfo(ctx context.Context, cik string) (*SECCompanyInfo, error) {
	cik = padCIK(cik)
	body, err := c.get(ctx, c.DataURL+fmt.Sprintf(submissionsPathFmt, cik), "application/json")
	if err != nil {
		return nil, err
	}

	var info SECCompanyInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse SEC response: %w", err)
	}
	if info.CIK == "" {
		info.CIK = cik
	}
	return &info, nil
}

func padCIK(cik string) string {
	cik = strings.TrimLeft(strings.TrimSpace(cik), "0")
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

// GetFilings returns the recent filings of the given form, newest first, at most limit
// (0 = no limit). Forms match exactly, so "10-K" excludes "10-K/A".
func (c *EDGARClient) GetFilings(info *SECCompanyInfo, form string, limit int) []Filing {
	recent := info.Filings.Recent
	var filings []Filing

	for i := range recent.AccessionNumber {
		if i >= len(recent.Form) || i >= len(recent.PrimaryDocument) || recent.Form[i] != form {
			continue
		}

		// Format: {archive}/{cik}/{accession-no-dashes}/{document}
		accessionNoDashes := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		cik := strings.TrimLeft(info.CIK, "0")
		f := Filing{
			AccessionNumber: recent.AccessionNumber[i],
			FormType:        recent.Form[i],
			PrimaryDocument: recent.PrimaryDocument[i],
			URL:             fmt.Sprintf("%s/%s/%s/%s", c.ArchiveURL, cik, accessionNoDashes, recent.PrimaryDocument[i]),
		}
		if i < len(recent.FilingDate) {
			f.FilingDate = recent.FilingDate[i]
		}
		if i < len(recent.ReportDate) {
			f.ReportDate = recent.ReportDate[i]
		}
		filings = append(filings, f)

		if limit > 0 && len(filings) >= limit {
			break
		}
	}
	return filings
}

// =============================================================================
// ARCHIVE DOWNLOAD
// =============================================================================

// Download fetches the newest count filings of form for ticker into the archive layout and
// returns the accession folders written. Filings already present on disk are not fetched again.
func (c *EDGARClient) Download(ctx context.Context, archive *LocalArchive, ticker, form string, count int) ([]string, error) {
	cik, err := c.LookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	info, err := c.FetchCompanyInfo(ctx, cik)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, f := range c.GetFilings(info, form, count) {
		dir := filepath.Join(archive.FormDir(ticker, form), f.AccessionNumber)
		dest := filepath.Join(dir, f.PrimaryDocument)
		if _, err := os.Stat(dest); err == nil {
			log.Debug().Str("Ticker", ticker).Str("Accession", f.AccessionNumber).Msg("filing already archived")
			dirs = append(dirs, dir)
			continue
		}

		body, err := c.get(ctx, f.URL, "text/html")
		if err != nil {
			return dirs, fmt.Errorf("failed to download %s: %w", f.AccessionNumber, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dirs, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := os.WriteFile(dest, body, 0o644); err != nil {
			return dirs, fmt.Errorf("failed to write %s: %w", dest, err)
		}
		log.Info().
			Str("Ticker", ticker).
			Str("Form", form).
			Str("Accession", f.AccessionNumber).
			Int("Bytes", len(body)).
			Msg("downloaded filing")
		dirs = append(dirs, dir)
	}
	return dirs, nil
}
