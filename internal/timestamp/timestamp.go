package timestamp

import (
	"cmp"
	"fmt"
	"time"
)

// Year is a four digit calendar year. The zero value is not a valid year.
type Year uint16

// NewYear validates y as a four digit, non-zero year.
func NewYear(y int) (Year, error) {
	if y < 1 || y > 9999 {
		return 0, fmt.Errorf("year %d out of range", y)
	}
	return Year(y), nil
}

// Int returns the year as an int
func (y Year) Int() int {
	return int(y)
}

// Class is the frequency class of a Timestamp: its tag without the payload.
// Buckets in the aggregation store are keyed by Class.
type Class uint8

// Frequency classes, ordered by period length descending.
const (
	CalendarYear Class = iota
	FiscalYear
	BiAnnual
	Quarterly
	Monthly
)

// Classes lists every frequency class in sort order
var Classes = []Class{CalendarYear, FiscalYear, BiAnnual, Quarterly, Monthly}

// String returns a human-readable class name
func (c Class) String() string {
	switch c {
	case CalendarYear:
		return "calendar year"
	case FiscalYear:
		return "fiscal year"
	case BiAnnual:
		return "bi-annual"
	case Quarterly:
		return "quarterly"
	case Monthly:
		return "monthly"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Slug is the file-name-safe identifier of the class, used to name export files.
func (c Class) Slug() string {
	switch c {
	case CalendarYear:
		return "calendar-year"
	case FiscalYear:
		return "fiscal-year"
	case BiAnnual:
		return "bi-annual"
	case Quarterly:
		return "quarterly"
	case Monthly:
		return "monthly"
	default:
		return fmt.Sprintf("class-%d", uint8(c))
	}
}

// Half identifies a half of the year
type Half uint8

const (
	JanThruJun Half = iota + 1
	JulThruDec
)

// Quarter identifies a quarter of the year
type Quarter uint8

const (
	JanFebMar Quarter = iota + 1
	AprMayJun
	JulAugSep
	OctNovDec
)

// Timestamp is the period an observation belongs to. It is comparable and
// can be used directly as a map key.
type Timestamp struct {
	class  Class
	year   Year
	period uint8
}

// Calendar returns the calendar year timestamp for y
func Calendar(y Year) Timestamp {
	return Timestamp{class: CalendarYear, year: y}
}

// Fiscal returns the fiscal year starting in y, e.g. 2009-10 for 2009
func Fiscal(y Year) Timestamp {
	return Timestamp{class: FiscalYear, year: y}
}

// InHalf returns the bi-annual timestamp for half h of year y
func InHalf(y Year, h Half) Timestamp {
	return Timestamp{class: BiAnnual, year: y, period: uint8(h)}
}

// InQuarter returns the quarterly timestamp for quarter q of year y
func InQuarter(y Year, q Quarter) Timestamp {
	return Timestamp{class: Quarterly, year: y, period: uint8(q)}
}

// InMonth returns the monthly timestamp for month m of year y
func InMonth(y Year, m time.Month) Timestamp {
	return Timestamp{class: Monthly, year: y, period: uint8(m)}
}

// Class projects the timestamp onto its frequency class
func (t Timestamp) Class() Class {
	return t.class
}

// Year returns the year the period starts in
func (t Timestamp) Year() Year {
	return t.year
}

// Period returns the sub-period index: month, quarter or half. Yearly
// timestamps have period 0.
func (t Timestamp) Period() int {
	return int(t.period)
}

// Compare orders timestamps by period length descending, then year, then
// sub-period. It returns -1, 0 or +1.
func Compare(a, b Timestamp) int {
	if c := cmp.Compare(a.class, b.class); c != 0 {
		return c
	}
	if c := cmp.Compare(a.year, b.year); c != 0 {
		return c
	}
	return cmp.Compare(a.period, b.period)
}

// Before reports whether t sorts before u
func (t Timestamp) Before(u Timestamp) bool {
	return Compare(t, u) < 0
}

// String renders the timestamp in its export format: "2009", "2009-10",
// "2009-07" and "2009 Jul-Sep".
func (t Timestamp) String() string {
	switch t.class {
	case CalendarYear:
		return fmt.Sprintf("%04d", t.year)
	case FiscalYear:
		return fmt.Sprintf("%04d-%02d", t.year, (int(t.year)+1)%100)
	case Monthly:
		return fmt.Sprintf("%04d-%02d", t.year, t.period)
	case Quarterly:
		start := time.Month(3*int(t.period) - 2)
		return fmt.Sprintf("%04d %s", t.year, monthSpan(start, start+2))
	case BiAnnual:
		start := time.Month(6*int(t.period) - 5)
		return fmt.Sprintf("%04d %s", t.year, monthSpan(start, start+5))
	default:
		return fmt.Sprintf("invalid timestamp %d/%d/%d", t.class, t.year, t.period)
	}
}

func monthSpan(start, end time.Month) string {
	return start.String()[:3] + "-" + end.String()[:3]
}

// Yearly is a timestamp found directly in a cell: either a calendar year or a
// fiscal year.
type Yearly struct {
	Year   Year
	Fiscal bool
}

// Timestamp widens the yearly value into a Timestamp
func (y Yearly) Timestamp() Timestamp {
	if y.Fiscal {
		return Fiscal(y.Year)
	}
	return Calendar(y.Year)
}

func (y Yearly) String() string {
	return y.Timestamp().String()
}
