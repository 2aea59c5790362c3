package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrCannotParse is returned when text is not in any recognised format
	ErrCannotParse = errors.New("cannot parse timestamp")

	// ErrFiscalMismatch is returned for "YYYY-YY" text whose second year does
	// not follow the first, e.g. "2009-15".
	ErrFiscalMismatch = errors.New("invalid fiscal year")
)

func cannotParse(value string) error {
	return fmt.Errorf("%w: %q", ErrCannotParse, value)
}

// ParseYear parses exactly four ASCII digits as a non-zero year
func ParseYear(value string) (Year, error) {
	if len(value) != 4 || !allDigits(value) {
		return 0, cannotParse(value)
	}
	n, _ := strconv.Atoi(value)
	y, err := NewYear(n)
	if err != nil {
		return 0, cannotParse(value)
	}
	return y, nil
}

// ParseYearly parses a calendar year ("2009") or a fiscal year ("2009-10",
// also "2009 - 10"). Trailing whitespace is ignored.
func ParseYearly(value string) (Yearly, error) {
	value = strings.TrimRightFunc(value, unicode.IsSpace)

	const calendarLen = len("2009")
	const fiscalLen = len("2009-10")

	if len(value) == calendarLen {
		y, err := ParseYear(value)
		if err != nil {
			return Yearly{}, err
		}
		return Yearly{Year: y}, nil
	}
	if len(value) < fiscalLen {
		return Yearly{}, cannotParse(value)
	}
	y, err := ParseYear(value[:4])
	if err != nil {
		return Yearly{}, err
	}
	suffix := value[4:]
	lastTwo := suffix[len(suffix)-2:]
	interior := suffix[:len(suffix)-2]
	if !allDigits(lastTwo) || strings.TrimSpace(interior) != "-" {
		return Yearly{}, cannotParse(value)
	}
	next, _ := strconv.Atoi(lastTwo)
	if (int(y)+1)%100 != next {
		return Yearly{}, fmt.Errorf("%w: %q", ErrFiscalMismatch, value)
	}
	return Yearly{Year: y, Fiscal: true}, nil
}

// ParseMonth parses a full or three letter month name, case-insensitively.
// A trailing period is allowed ("Sep.").
func ParseMonth(value string) (time.Month, error) {
	value = strings.TrimRightFunc(value, unicode.IsSpace)
	value = strings.TrimSuffix(value, ".")
	lower := strings.ToLower(value)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if lower == name || lower == name[:3] {
			return m, nil
		}
	}
	// The publisher has misspelled February in past editions
	if lower == "fabruary" {
		return time.February, nil
	}
	return 0, cannotParse(value)
}

type monthSpanOf[T ~uint8] struct {
	value      T
	start, end time.Month
}

var quarters = []monthSpanOf[Quarter]{
	{JanFebMar, time.January, time.March},
	{AprMayJun, time.April, time.June},
	{JulAugSep, time.July, time.September},
	{OctNovDec, time.October, time.December},
}

var halves = []monthSpanOf[Half]{
	{JanThruJun, time.January, time.June},
	{JulThruDec, time.July, time.December},
}

// ParseQuarter parses spans such as "Jan-Mar", "Jul- Sep", "Oct.-Dec" and
// "July-Sep".
func ParseQuarter(value string) (Quarter, error) {
	return parseSpan(value, quarters)
}

// ParseHalf parses spans such as "Jan-Jun" and "Jul - Dec."
func ParseHalf(value string) (Half, error) {
	return parseSpan(value, halves)
}

func parseSpan[T ~uint8](value string, spans []monthSpanOf[T]) (T, error) {
	value = strings.TrimSpace(value)
	if trimmed := strings.TrimRight(value, "."); trimmed != value {
		return parseSpan(trimmed, spans)
	}
	for _, span := range spans {
		rest := trimMonthPrefix(value, span.start)
		rest = trimMonthSuffix(rest, span.end)
		rest = strings.TrimLeft(rest, ".")
		if strings.TrimSpace(rest) == "-" {
			return span.value, nil
		}
	}
	return 0, cannotParse(value)
}

// monthSpellings lists the ways a month is written in span labels, longest
// first: "September", "Sept", "Sep".
func monthSpellings(m time.Month) []string {
	name := m.String()
	spellings := []string{name}
	if len(name) > 4 {
		spellings = append(spellings, name[:4])
	}
	if len(name) > 3 {
		spellings = append(spellings, name[:3])
	}
	return spellings
}

func trimMonthPrefix(value string, m time.Month) string {
	for _, spelling := range monthSpellings(m) {
		if len(value) >= len(spelling) && strings.EqualFold(value[:len(spelling)], spelling) {
			return value[len(spelling):]
		}
	}
	return value
}

func trimMonthSuffix(value string, m time.Month) string {
	for _, spelling := range monthSpellings(m) {
		if len(value) >= len(spelling) && strings.EqualFold(value[len(value)-len(spelling):], spelling) {
			return value[:len(value)-len(spelling)]
		}
	}
	return value
}

// WithYear interprets a sub-year label (month, quarter or half-year) in the
// context of year y.
func WithYear(y Year, label string) (Timestamp, error) {
	if m, err := ParseMonth(label); err == nil {
		return InMonth(y, m), nil
	}
	if q, err := ParseQuarter(label); err == nil {
		return InQuarter(y, q), nil
	}
	if h, err := ParseHalf(label); err == nil {
		return InHalf(y, h), nil
	}
	return Timestamp{}, cannotParse(label)
}

// Parse reads back a timestamp rendered by Timestamp.String. The class is
// required because a fiscal year ("2009-10") and a month ("2009-10") share
// the same text; export files are per class, so the class is always known.
func Parse(class Class, value string) (Timestamp, error) {
	switch class {
	case CalendarYear:
		y, err := ParseYear(value)
		if err != nil {
			return Timestamp{}, err
		}
		return Calendar(y), nil
	case FiscalYear:
		yearly, err := ParseYearly(value)
		if err != nil {
			return Timestamp{}, err
		}
		if !yearly.Fiscal {
			return Timestamp{}, cannotParse(value)
		}
		return Fiscal(yearly.Year), nil
	case Monthly:
		yearText, monthText, ok := strings.Cut(value, "-")
		if !ok || len(monthText) < 1 || len(monthText) > 2 || !allDigits(monthText) {
			return Timestamp{}, cannotParse(value)
		}
		y, err := ParseYear(yearText)
		if err != nil {
			return Timestamp{}, err
		}
		m, _ := strconv.Atoi(monthText)
		if m < 1 || m > 12 {
			return Timestamp{}, cannotParse(value)
		}
		return InMonth(y, time.Month(m)), nil
	case Quarterly, BiAnnual:
		if len(value) != len("2009 Jan-Jun") || value[4] != ' ' {
			return Timestamp{}, cannotParse(value)
		}
		y, err := ParseYear(value[:4])
		if err != nil {
			return Timestamp{}, err
		}
		if class == Quarterly {
			q, err := ParseQuarter(value[5:])
			if err != nil {
				return Timestamp{}, err
			}
			return InQuarter(y, q), nil
		}
		h, err := ParseHalf(value[5:])
		if err != nil {
			return Timestamp{}, err
		}
		return InHalf(y, h), nil
	default:
		return Timestamp{}, fmt.Errorf("%w: unknown class %d", ErrCannotParse, class)
	}
}

func allDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return value != ""
}
