// Package xbrl extracts scalar financial facts from XBRL instance documents and inline XBRL filings.
//
// This package uses the following external libraries:
//   - github.com/PuerkitoBio/goquery: tolerant HTML5 tree building (golang.org/x/net/html) used for
//     both pure XML instances and iXBRL documents, which are frequently not well-formed
//   - github.com/araddon/dateparse: last-resort parser for free-form period dates
package xbrl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Local names of the structural elements the extractor looks for.
// The HTML tokenizer folds element names to lower case, so all lookups are case-insensitive.
const (
	nameNonFraction = "nonfraction"
	nameNonNumeric  = "nonnumeric"
)

// selfClosing matches empty elements such as <xbrldi:explicitMember .../> or, in
// default-namespace instances, <NetIncomeLoss .../>. HTML5 parsing ignores the self-closing flag
// on unknown elements, which would make every following sibling a child of the empty element, so
// these are expanded before parsing.
var selfClosing = regexp.MustCompile(`<([A-Za-z_][\w.\-]*(?::[\w.\-]+)?)(\s[^<>]*?)?\s*/>`)

// voidElements are HTML elements that never have content; they are left as written.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

// expandSelfClosing rewrites <name attrs/> as <name attrs></name> for every non-void element.
func expandSelfClosing(raw []byte) []byte {
	return selfClosing.ReplaceAllFunc(raw, func(m []byte) []byte {
		sub := selfClosing.FindSubmatch(m)
		name := sub[1]
		if voidElements[strings.ToLower(string(name))] {
			return m
		}
		out := make([]byte, 0, len(m)+len(name)+3)
		out = append(out, '<')
		out = append(out, name...)
		out = append(out, sub[2]...)
		out = append(out, "></"...)
		out = append(out, name...)
		return append(out, '>')
	})
}

// Document is a parsed filing with its elements indexed by local (namespace-stripped) name.
// A Document is read-only after Load and may be shared by concurrent readers.
type Document struct {
	doc    *goquery.Document
	byName map[string][]*goquery.Selection
}

// Load parses markup from r. Malformed markup is recovered rather than rejected; an error is
// returned only when the input cannot be read or the tree cannot be built at all.
func Load(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	raw = expandSelfClosing(raw)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	d := &Document{doc: doc, byName: make(map[string][]*goquery.Selection)}
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		name := localName(goquery.NodeName(s))
		d.byName[name] = append(d.byName[name], s)
	})
	return d, nil
}

// LoadFile parses the file at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Elements returns every element whose local name equals name, in document order.
func (d *Document) Elements(name string) []*goquery.Selection {
	if d == nil {
		return nil
	}
	return d.byName[strings.ToLower(name)]
}

// InlineFacts returns the inline XBRL facts of the given kind ("nonFraction" or "nonNumeric")
// whose name attribute contains fragment, in document order.
func (d *Document) InlineFacts(kind, fragment string) []*goquery.Selection {
	var out []*goquery.Selection
	for _, s := range d.Elements(kind) {
		if name, ok := s.Attr("name"); ok && strings.Contains(name, fragment) {
			out = append(out, s)
		}
	}
	return out
}

// FirstText returns the text of the first element named name, falling back to the first inline
// nonNumeric fact whose name contains it. Empty text counts as absent.
func (d *Document) FirstText(name string) (string, bool) {
	for _, s := range d.Elements(name) {
		if text := nodeText(s); text != "" {
			return text, true
		}
	}
	for _, s := range d.InlineFacts(nameNonNumeric, name) {
		if text := nodeText(s); text != "" {
			return text, true
		}
	}
	return "", false
}

// localName strips a namespace prefix ("us-gaap:revenues" -> "revenues") and folds case.
func localName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// descendants returns the descendants of s with the given local name, in document order.
func descendants(s *goquery.Selection, name string) *goquery.Selection {
	name = strings.ToLower(name)
	return s.Find("*").FilterFunction(func(_ int, c *goquery.Selection) bool {
		return localName(goquery.NodeName(c)) == name
	})
}

// nodeText joins all descendant text of s and trims surrounding whitespace.
func nodeText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
