// Package filing turns one filing on disk into a normalized FilingRecord.
//
// Extraction never aborts a batch: every failure is reported as one of the sentinel errors
// below together with a nil record, and the caller skips that filing.
package filing

import (
	"errors"
	"fmt"

	"alpha_engine/pkg/core/registry"
	"alpha_engine/pkg/core/xbrl"
	"alpha_engine/pkg/models"

	"github.com/rs/zerolog/log"
)

var (
	// ErrDocumentNotFound means the path holds no XML or HTML document.
	ErrDocumentNotFound = errors.New("no filing document found")
	// ErrUnparseableMarkup means recovery-mode parsing itself failed.
	ErrUnparseableMarkup = errors.New("unparseable filing markup")
	// ErrMissingPeriodDate means the document has no determinable period end date.
	ErrMissingPeriodDate = errors.New("filing has no period end date")
)

const (
	tagPeriodEnd    = "DocumentPeriodEndDate"
	tagDocumentType = "DocumentType"
)

// Extractor reads filings with a fixed tag registry. It is safe for concurrent use:
// each call parses its own document and keeps no state between calls.
type Extractor struct {
	registry *registry.Registry
	values   *xbrl.ValueExtractor
	selector DocumentSelector
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithSelector replaces the default largest-file document selection.
func WithSelector(s DocumentSelector) Option {
	return func(e *Extractor) {
		if s != nil {
			e.selector = s
		}
	}
}

// WithConflictPolicy sets how competing facts for the same metric are handled.
func WithConflictPolicy(p xbrl.ConflictPolicy) Option {
	return func(e *Extractor) {
		e.values = xbrl.NewValueExtractor(p)
	}
}

// NewExtractor creates an extractor over reg. A nil registry behaves as an empty one.
func NewExtractor(reg *registry.Registry, opts ...Option) *Extractor {
	if reg == nil {
		reg = registry.Empty()
	}
	e := &Extractor{
		registry: reg,
		values:   xbrl.NewValueExtractor(xbrl.FirstMatch),
		selector: LargestFileSelector{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the filing at path, a document file or a directory holding one.
func (e *Extractor) Extract(path string) (*models.FilingRecord, error) {
	return e.ExtractWithHint(path, "")
}

// ExtractWithHint is Extract with a fallback source form, used when the document carries no
// DocumentType fact but the caller knows which form folder it came from.
func (e *Extractor) ExtractWithHint(path, formHint string) (rec *models.FilingRecord, err error) {
	var docPath string
	defer func() {
		if r := recover(); r != nil {
			if docPath == "" {
				// The selector panicked before a document was chosen.
				log.Error().Str("File", path).Interface("Panic", r).Msg("recovered from panic while selecting document")
				rec, err = nil, fmt.Errorf("%w: %s: %v", ErrDocumentNotFound, path, r)
				return
			}
			log.Error().Str("File", docPath).Interface("Panic", r).Msg("recovered from panic during extraction")
			rec, err = nil, fmt.Errorf("%w: %s: %v", ErrUnparseableMarkup, docPath, r)
		}
	}()

	docPath, err = e.locate(path)
	if err != nil {
		return nil, err
	}

	doc, err := xbrl.LoadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableMarkup, err)
	}
	return e.extractDocument(doc, docPath, formHint)
}

func (e *Extractor) locate(path string) (string, error) {
	docs, err := findDocuments(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDocumentNotFound, path, err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	if len(docs) == 1 {
		return docs[0], nil
	}

	chosen, err := e.selector.Select(docs)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return "", fmt.Errorf("%w: %s", err, path)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrDocumentNotFound, path, err)
	}
	return chosen, nil
}

func (e *Extractor) extractDocument(doc *xbrl.Document, docPath, formHint string) (*models.FilingRecord, error) {
	contexts := xbrl.ResolveContexts(doc)

	rawDate, ok := doc.FirstText(tagPeriodEnd)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPeriodDate, docPath)
	}
	periodEnd := xbrl.NormalizeDateOrRaw(rawDate)
	if periodEnd == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingPeriodDate, docPath)
	}

	rec := &models.FilingRecord{
		PeriodEndDate: periodEnd,
		SourceForm:    sourceForm(doc, formHint),
		FileRef:       docPath,
		Metrics:       make(map[string]float64, e.registry.Len()),
	}
	for _, metric := range e.registry.Metrics() {
		v, found := e.values.Extract(doc, e.registry.Aliases(metric), contexts, periodEnd)
		rec.Metrics[metric] = v
		if !found {
			rec.Missing = append(rec.Missing, metric)
		}
	}

	log.Debug().
		Str("File", docPath).
		Str("Form", rec.SourceForm).
		Str("PeriodEnd", rec.PeriodEndDate).
		Int("Metrics", len(rec.Metrics)).
		Int("Missing", len(rec.Missing)).
		Msg("extracted filing")
	return rec, nil
}

func sourceForm(doc *xbrl.Document, hint string) string {
	if form, ok := doc.FirstText(tagDocumentType); ok {
		return form
	}
	if hint != "" {
		return hint
	}
	return models.FormUnknown
}
