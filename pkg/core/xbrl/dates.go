package xbrl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISODate is the canonical calendar-date layout of every normalized period.
const ISODate = "2006-01-02"

// ErrUnparseableDate is returned when date text matches none of the supported formats.
var ErrUnparseableDate = errors.New("unparseable date")

// dateLayouts are tried in order before handing the text to dateparse.
// Month-first layouts precede day-first ones.
// Go's month-name matching is case-insensitive, so "SEPTEMBER 30, 2023" is accepted as well.
var dateLayouts = []string{
	ISODate,
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01-02-2006",
	"1-2-2006",
	// Day-first forms only match once the month-first layouts above have failed, i.e. when the
	// first number is above 12. Ambiguous dates such as 03/04/2023 stay month-first.
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
}

var (
	abbrevMonthDot = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\.`)
	septAbbrev     = regexp.MustCompile(`(?i)\bsept\b`)
	ordinalSuffix  = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
)

// NormalizeDate converts free-form date text ("09/30/2023", "2023-09-30", "Sept. 30, 2023",
// "30 September 2023") into an ISO calendar date with no time component.
func NormalizeDate(raw string) (string, error) {
	text := cleanDateText(raw)
	if text == "" {
		return "", fmt.Errorf("%w: empty text", ErrUnparseableDate)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(ISODate), nil
		}
	}

	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
	}
	return t.Format(ISODate), nil
}

// NormalizeDateOrRaw normalizes text, falling back to the trimmed original when it cannot be parsed.
func NormalizeDateOrRaw(raw string) string {
	if d, err := NormalizeDate(raw); err == nil {
		return d
	}
	return strings.TrimSpace(raw)
}

// cleanDateText collapses whitespace (including non-breaking spaces common in iXBRL) and
// rewrites abbreviations such as "Sept." and "30th" into forms the layouts understand.
func cleanDateText(raw string) string {
	text := strings.ReplaceAll(raw, "\u00a0", " ")
	text = strings.Join(strings.Fields(text), " ")
	text = abbrevMonthDot.ReplaceAllString(text, "$1")
	text = septAbbrev.ReplaceAllString(text, "Sep")
	text = ordinalSuffix.ReplaceAllString(text, "$1")
	return text
}
