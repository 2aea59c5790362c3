package download

import (
	"fmt"
	"time"

	apperrors "github.com/A248/bank-data/internal/errors"
)

// MonthlyReport identifies one monthly publication
type MonthlyReport struct {
	Year  int
	Month time.Month
}

// KnownGaps lists months that were never published
var KnownGaps = []MonthlyReport{{Year: 2015, Month: time.November}}

// ParseMonth parses "YYYY-MM"
func ParseMonth(s string) (MonthlyReport, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthlyReport{}, apperrors.NewParsingError(fmt.Sprintf("invalid month %q", s), err)
	}
	return MonthlyReport{Year: t.Year(), Month: t.Month()}, nil
}

// FileName is the name the publication is stored under: "2015-03.xlsx".
// Zero-padded months keep name order equal to publication order.
func (r MonthlyReport) FileName(ext string) string {
	return fmt.Sprintf("%d-%02d.%s", r.Year, int(r.Month), ext)
}

func (r MonthlyReport) String() string {
	return fmt.Sprintf("%s %d", r.Month, r.Year)
}

// Before orders reports by publication date
func (r MonthlyReport) Before(other MonthlyReport) bool {
	if r.Year != other.Year {
		return r.Year < other.Year
	}
	return r.Month < other.Month
}

// Plan lists every report from January of fromYear through the month of now,
// leaving out skip
func Plan(fromYear int, now time.Time, skip []MonthlyReport) []MonthlyReport {
	last := MonthlyReport{Year: now.Year(), Month: now.Month()}
	skipped := make(map[MonthlyReport]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}

	var plan []MonthlyReport
	for r := (MonthlyReport{Year: fromYear, Month: time.January}); !last.Before(r); r = r.next() {
		if !skipped[r] {
			plan = append(plan, r)
		}
	}
	return plan
}

func (r MonthlyReport) next() MonthlyReport {
	if r.Month == time.December {
		return MonthlyReport{Year: r.Year + 1, Month: time.January}
	}
	return MonthlyReport{Year: r.Year, Month: r.Month + 1}
}
