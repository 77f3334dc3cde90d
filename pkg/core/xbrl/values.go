package xbrl

import (
	"math"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// ConflictPolicy decides what happens when several facts qualify for the same metric and date.
type ConflictPolicy int

const (
	// FirstMatch returns the first qualifying fact and ignores the rest.
	FirstMatch ConflictPolicy = iota
	// Strict still returns the first qualifying fact but inspects every candidate and logs
	// a warning when qualifying facts disagree.
	Strict
)

// NumericFact is a candidate fact read off the document; it is consumed immediately.
type NumericFact struct {
	TagName    string
	ContextRef string
	RawText    string
	Scale      *int
	Sign       string
}

var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// ValueExtractor resolves a metric to a single scalar for one target date.
// It holds no per-call state, so repeated calls on the same inputs return the same result.
type ValueExtractor struct {
	Policy ConflictPolicy
}

// NewValueExtractor creates an extractor with the given conflict policy.
func NewValueExtractor(policy ConflictPolicy) *ValueExtractor {
	return &ValueExtractor{Policy: policy}
}

// Extract returns the value of the first fact, in alias priority order and then document order,
// that is bound to a consolidated (segment-free) context ending exactly on targetDate.
// found is false and the value 0 when no fact qualifies.
func (e *ValueExtractor) Extract(doc *Document, aliases []string, contexts Contexts, targetDate string) (value float64, found bool) {
	if doc == nil || targetDate == "" {
		return 0, false
	}

	var agreed []float64
	for _, fact := range candidates(doc, aliases) {
		ctx, ok := contexts[fact.ContextRef]
		if fact.ContextRef == "" || !ok {
			continue
		}
		if ctx.HasSegment {
			continue
		}
		if ctx.PeriodEnd != targetDate {
			continue
		}

		v, ok := fact.Resolve()
		if !ok {
			continue
		}
		if e == nil || e.Policy == FirstMatch {
			return v, true
		}
		agreed = append(agreed, v)
	}

	if len(agreed) == 0 {
		return 0, false
	}
	for _, v := range agreed[1:] {
		if v != agreed[0] {
			log.Warn().
				Strs("Aliases", aliases).
				Str("Date", targetDate).
				Floats64("Values", agreed).
				Msg("conflicting facts qualify for the same metric, keeping the first")
			break
		}
	}
	return agreed[0], true
}

// Resolve parses the fact text and applies the scale and sign attributes.
func (f NumericFact) Resolve() (float64, bool) {
	clean := nonNumeric.ReplaceAllString(f.RawText, "")
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if f.Scale != nil {
		v *= math.Pow10(*f.Scale)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
	}
	if f.Sign == "-" {
		v = -v
	}
	return v, true
}

// candidates collects, per alias, the exactly-named XML facts followed by the inline
// nonFraction facts whose name contains the alias. Inline names are namespace-qualified
// ("us-gaap:Revenues"), hence containment rather than equality.
func candidates(doc *Document, aliases []string) []NumericFact {
	var facts []NumericFact
	seen := make(map[*goquery.Selection]bool)
	add := func(s *goquery.Selection) {
		if seen[s] {
			return
		}
		seen[s] = true
		facts = append(facts, readFact(s))
	}

	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		for _, s := range doc.Elements(alias) {
			add(s)
		}
		for _, s := range doc.InlineFacts(nameNonFraction, alias) {
			add(s)
		}
	}
	return facts
}

func readFact(s *goquery.Selection) NumericFact {
	fact := NumericFact{
		TagName: goquery.NodeName(s),
		RawText: nodeText(s),
	}
	if name, ok := s.Attr("name"); ok {
		fact.TagName = name
	}
	fact.ContextRef, _ = s.Attr("contextref")
	fact.Sign, _ = s.Attr("sign")
	if raw, ok := s.Attr("scale"); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			fact.Scale = &n
		}
	}
	return fact
}
