package filing

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// documentExts are the XML and HTML family extensions a filing body can have.
var documentExts = map[string]bool{
	".xml":   true,
	".htm":   true,
	".html":  true,
	".xhtml": true,
}

// DocumentSelector picks the primary filing document out of a set of candidate files.
// Candidates are never empty when Select is called.
type DocumentSelector interface {
	Select(candidates []string) (string, error)
}

// LargestFileSelector assumes the biggest XML/HTML file in a filing folder is the filing body;
// exhibits and schema files are much smaller. Ties keep the first path in walk order.
type LargestFileSelector struct{}

// Select implements DocumentSelector.
func (LargestFileSelector) Select(candidates []string) (string, error) {
	var best string
	var bestSize int64 = -1
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best, bestSize = path, info.Size()
		}
	}
	if best == "" {
		return "", ErrDocumentNotFound
	}
	return best, nil
}

// IsDocument reports whether path has one of the accepted document extensions.
func IsDocument(path string) bool {
	return documentExts[strings.ToLower(filepath.Ext(path))]
}

// findDocuments returns path itself when it is a file, or every document below it when it
// is a directory. Unreadable subtrees are skipped.
func findDocuments(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var docs []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() && p != path {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsDocument(p) {
			docs = append(docs, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
