package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ArchiveDir is the top-level folder of a local filing archive.
const ArchiveDir = "sec-edgar-filings"

// FilingSource resolves (ticker, form, count) to local filing paths, newest accession first.
// Each path is a directory or document the filing extractor can read.
type FilingSource interface {
	FilingPaths(ticker, form string, count int) ([]string, error)
}

// LocalArchive reads filings laid out as <Root>/sec-edgar-filings/<TICKER>/<FORM>/<accession>/.
type LocalArchive struct {
	Root string
}

// NewLocalArchive creates an archive rooted at root ("" means the working directory).
func NewLocalArchive(root string) *LocalArchive {
	return &LocalArchive{Root: root}
}

// FormDir returns the folder holding every filing of one form for a ticker.
func (a *LocalArchive) FormDir(ticker, form string) string {
	return filepath.Join(a.Root, ArchiveDir, strings.ToUpper(ticker), form)
}

// FilingPaths implements FilingSource. A missing ticker or form folder yields no paths and no
// error; count <= 0 returns every filing.
func (a *LocalArchive) FilingPaths(ticker, form string, count int) ([]string, error) {
	dir := a.FormDir(ticker, form)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return accessionNewer(names[i], names[j])
	})
	if count > 0 && len(names) > count {
		names = names[:count]
	}

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// accessionPattern matches "0000320193-23-000106": filer id, two-digit year, sequence.
var accessionPattern = regexp.MustCompile(`^(\d{10})-(\d{2})-(\d{6})$`)

type accessionKey struct {
	year, seq int
	ok        bool
}

func parseAccession(name string) accessionKey {
	m := accessionPattern.FindStringSubmatch(name)
	if m == nil {
		return accessionKey{}
	}
	yy, _ := strconv.Atoi(m[2])
	seq, _ := strconv.Atoi(m[3])
	year := 2000 + yy
	if yy >= 90 {
		year = 1900 + yy
	}
	return accessionKey{year: year, seq: seq, ok: true}
}

// accessionNewer orders accession folders newest first. Names that are not accession numbers
// sort after all accession numbers, in reverse lexical order.
func accessionNewer(a, b string) bool {
	ka, kb := parseAccession(a), parseAccession(b)
	switch {
	case ka.ok && !kb.ok:
		return true
	case !ka.ok && kb.ok:
		return false
	case !ka.ok && !kb.ok:
		return a > b
	case ka.year != kb.year:
		return ka.year > kb.year
	case ka.seq != kb.seq:
		return ka.seq > kb.seq
	default:
		return a > b
	}
}
