package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, base string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(base, n), 0o755))
	}
}

func TestLocalArchive_FilingPaths(t *testing.T) {
	root := t.TempDir()
	archive := NewLocalArchive(root)
	dir := archive.FormDir("aapl", "10-Q")
	mkdirs(t, dir,
		"0000320193-23-000064",
		"0000320193-24-000006",
		"0000320193-23-000077",
		"0001193125-22-000123",
		"manual-upload",
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{}"), 0o644))

	paths, err := archive.FilingPaths("AAPL", "10-Q", 0)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{
		"0000320193-24-000006",
		"0000320193-23-000077",
		"0000320193-23-000064",
		"0001193125-22-000123",
		"manual-upload",
	}, names)
	assert.Equal(t, filepath.Join(root, ArchiveDir, "AAPL", "10-Q", "0000320193-24-000006"), paths[0])

	paths, err = archive.FilingPaths("AAPL", "10-Q", 2)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestLocalArchive_MissingFolder(t *testing.T) {
	paths, err := NewLocalArchive(t.TempDir()).FilingPaths("MSFT", "10-K", 4)
	assert.NoError(t, err)
	assert.Empty(t, paths)
}

func TestParseAccession(t *testing.T) {
	assert.Equal(t, accessionKey{year: 1999, seq: 5, ok: true}, parseAccession("0000950123-99-000005"))
	assert.Equal(t, accessionKey{year: 2024, seq: 6, ok: true}, parseAccession("0000320193-24-000006"))
	assert.False(t, parseAccession("000032019324000006").ok)
}

// ============================================================================
// EDGAR client
// ============================================================================

func newEDGARServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	downloads := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."}}`))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cik":"320193","name":"Apple Inc.","filings":{"recent":{
			"accessionNumber":["0000320193-24-000006","0000320193-23-000106","0000320193-23-000077","0000320193-22-000108"],
			"filingDate":["2024-02-02","2023-11-03","2023-08-04","2022-10-28"],
			"reportDate":["2023-12-30","2023-09-30","2023-07-01","2022-09-24"],
			"form":["10-Q","10-K","10-Q","10-K"],
			"primaryDocument":["aapl-20231230.htm","aapl-20230930.htm","aapl-20230701.htm","aapl-20220924.htm"]}}}`))
	})
	mux.HandleFunc("/Archives/320193/", func(w http.ResponseWriter, r *http.Request) {
		downloads++
		_, _ = w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &downloads
}

func testClient(srv *httptest.Server) *EDGARClient {
	c := NewEDGARClient("")
	c.DataURL = srv.URL
	c.ArchiveURL = srv.URL + "/Archives"
	c.TickersURL = srv.URL + "/files/company_tickers.json"
	return c
}

func TestEDGARClient_GetFilings(t *testing.T) {
	srv, _ := newEDGARServer(t)
	c := testClient(srv)
	ctx := context.Background()

	cik, err := c.LookupCIK(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "0000320193", cik)

	info, err := c.FetchCompanyInfo(ctx, "320193")
	require.NoError(t, err)

	annual := c.GetFilings(info, "10-K", 0)
	require.Len(t, annual, 2)
	assert.Equal(t, "0000320193-23-000106", annual[0].AccessionNumber)
	assert.Equal(t, "2023-09-30", annual[0].ReportDate)
	assert.Equal(t, srv.URL+"/Archives/320193/000032019323000106/aapl-20230930.htm", annual[0].URL)

	assert.Len(t, c.GetFilings(info, "10-Q", 1), 1)

	_, err = c.LookupCIK(ctx, "ZZZZ")
	assert.Error(t, err)
}

func TestEDGARClient_DownloadFillsArchive(t *testing.T) {
	srv, downloads := newEDGARServer(t)
	c := testClient(srv)
	archive := NewLocalArchive(t.TempDir())

	dirs, err := c.Download(context.Background(), archive, "AAPL", "10-K", 2)
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, 2, *downloads)

	body, err := os.ReadFile(filepath.Join(dirs[0], "aapl-20230930.htm"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "000032019323000106")

	paths, err := archive.FilingPaths("AAPL", "10-K", 0)
	require.NoError(t, err)
	assert.Equal(t, dirs, paths)

	_, err = c.Download(context.Background(), archive, "AAPL", "10-K", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, *downloads, "archived filings are not fetched again")
}

func TestEDGARClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := testClient(srv).FetchCompanyInfo(context.Background(), "1")
	assert.ErrorContains(t, err, "status 404")
}
