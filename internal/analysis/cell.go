package analysis

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/A248/bank-data/internal/timestamp"
	"github.com/A248/bank-data/internal/workbook"
)

// IndependenceYear is the earliest year a numeric cell may denote
const IndependenceYear = 1971

const (
	oldBaseMarker = "(OB)"
	newBaseMarker = "(NB)"
)

var provisionalMarkers = []string{"P", "p", "(P)", "(p)"}

// CellKind is the result of reading a cell as a timestamp
type CellKind uint8

const (
	// CellNone is not a timestamp
	CellNone CellKind = iota
	// CellYearly is a calendar or fiscal year
	CellYearly
	// CellNeedsContext is text that may be a month, quarter or half-year
	// once the current year is known
	CellNeedsContext
	// CellProvisional marks preliminary data; nothing at or below it is read
	CellProvisional
)

// CellValue is an interpreted timestamp cell
type CellValue struct {
	Kind   CellKind
	Yearly timestamp.Yearly
	Text   string
}

// InterpretCell reads a cell as a timestamp. currentYear bounds numeric
// years. The inspector may reject the sheet on the cell's text.
func InterpretCell(cell workbook.Cell, inspector Inspector, currentYear int) (CellValue, error) {
	switch cell.Kind {
	case workbook.Number:
		year := math.Round(cell.Number)
		if year >= IndependenceYear && year <= float64(currentYear) {
			return CellValue{Kind: CellYearly, Yearly: timestamp.Yearly{Year: timestamp.Year(year)}}, nil
		}
		return CellValue{}, nil
	case workbook.String:
		return interpretText(cell.Text, inspector)
	default:
		return CellValue{}, nil
	}
}

func interpretText(text string, inspector Inspector) (CellValue, error) {
	if err := inspector.Unsupported(text); err != nil {
		return CellValue{}, err
	}

	for _, marker := range provisionalMarkers {
		prior, ok := strings.CutSuffix(text, marker)
		if !ok {
			continue
		}
		if _, err := timestamp.ParseYearly(prior); err == nil {
			return CellValue{Kind: CellProvisional}, nil
		}
		if _, err := timestamp.ParseMonth(prior); err == nil {
			return CellValue{Kind: CellProvisional}, nil
		}
	}

	text = stripRevision(text)
	if strings.HasSuffix(text, oldBaseMarker) {
		return CellValue{}, nil
	}
	text = strings.TrimSuffix(text, newBaseMarker)

	if y, err := timestamp.ParseYearly(text); err == nil {
		return CellValue{Kind: CellYearly, Yearly: y}, nil
	}
	return CellValue{Kind: CellNeedsContext, Text: strings.TrimSpace(text)}, nil
}

// stripRevision removes one trailing '*', 'R' or '®', which flag revised figures
func stripRevision(text string) string {
	if r, size := utf8.DecodeLastRuneInString(text); r == '*' || r == 'R' || r == '®' {
		return text[:len(text)-size]
	}
	return text
}

// isOldBase reports whether a timestamp cell carries the old base-year
// marker. Such rows repeat a period already published on the new base.
func isOldBase(cell workbook.Cell) bool {
	return cell.Kind == workbook.String && strings.HasSuffix(stripRevision(cell.Text), oldBaseMarker)
}
